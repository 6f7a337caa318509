package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hilsim/internal/analysisrecorder"
	"hilsim/internal/config"
	"hilsim/internal/monitor"
	"hilsim/internal/rxqueue"
	"hilsim/internal/scheduler"
	"hilsim/internal/telemetrylog"
	"hilsim/internal/transport"
)

var simulateBodyName string

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the Simulator side: the pacemaker that dials the Hardware peer",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&simulateBodyName, "body", "numeric",
		fmt.Sprintf("simulation body: one of %v", validBodyNames))
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	body, err := simBodyFor(simulateBodyName, cfg.TotalSteps)
	if err != nil {
		return err
	}

	conn, err := transport.Dial(cfg.ActHost, cfg.ActPort)
	if err != nil {
		return err
	}
	defer conn.Close()

	logger, err := telemetrylog.NewSimLogger(cfg.LogDir)
	if err != nil {
		return err
	}
	defer logger.Close()

	var recorder *analysisrecorder.Recorder
	if cfg.AnalysisDB != "" {
		recorder, err = analysisrecorder.New(cfg.AnalysisDB)
		if err != nil {
			return err
		}
		defer recorder.Close()
	}

	queue := rxqueue.New(cfg.RxQueueCapacity)
	reader := rxqueue.NewReader(conn, queue)
	go reader.Run()

	var mon *monitor.Monitor
	if cfg.MonitorAddr != "" {
		mon = monitor.New()
		mon.RegisterState(cfg)
		go func() {
			if err := mon.ListenAndServe(cfg.MonitorAddr); err != nil {
				fmt.Fprintf(os.Stderr, "monitor: %v\n", err)
			}
		}()
	}

	sched := scheduler.New(conn, queue, body, scheduler.Config{
		Period:       cfg.StepPeriod,
		ReplyTimeout: cfg.ReplyTimeout,
		TotalSteps:   cfg.TotalSteps,
	}, logger)

	if mon != nil {
		var timeoutCount, deadlineMissCount int64
		sched.WithOnStep(func(rec scheduler.StepRecord) {
			if rec.Timeout {
				timeoutCount++
			}
			if rec.DeadlineMissMs > 0 {
				deadlineMissCount++
			}
			mon.Update(monitor.Snapshot{
				StepID:             int64(rec.StepID),
				LastRTTNs:          rec.TSimRecvNs - rec.TSimSendNs,
				TimeoutCount:       timeoutCount,
				DeadlineMissCount:  deadlineMissCount,
				LastDeadlineMissMs: rec.DeadlineMissMs,
			})
		})
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "hilsim: received interrupt, flushing logs before exit")
		logger.Close()
		if recorder != nil {
			recorder.Close()
		}
		os.Exit(1)
	}()

	records, err := sched.Run()
	if err != nil {
		return err
	}

	if recorder != nil {
		for _, rec := range records {
			if err := recorder.InsertSimStep(analysisrecorder.SimStep{
				StepID:         int64(rec.StepID),
				TSimSendNs:     rec.TSimSendNs,
				TSimRecvNs:     rec.TSimRecvNs,
				TActRecvNs:     rec.TActRecvNs,
				TActSendNs:     rec.TActSendNs,
				Timeout:        rec.Timeout,
				DeadlineMissMs: rec.DeadlineMissMs,
			}); err != nil {
				fmt.Fprintf(os.Stderr, "analysisrecorder: %v\n", err)
			}
		}
	}

	fmt.Printf("hilsim: finished %d steps\n", len(records))
	return nil
}
