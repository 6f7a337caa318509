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
	"hilsim/internal/responder"
	"hilsim/internal/telemetrylog"
	"hilsim/internal/transport"
)

var actuateBodyName string

var actuateCmd = &cobra.Command{
	Use:   "actuate",
	Short: "Run the Hardware side: accepts one Simulator connection and answers each command",
	RunE:  runActuate,
}

func init() {
	actuateCmd.Flags().StringVar(&actuateBodyName, "body", "numeric",
		fmt.Sprintf("hardware body: one of %v", validBodyNames))
	rootCmd.AddCommand(actuateCmd)
}

func runActuate(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The Hardware binds to every interface by default, unlike the
	// Simulator's peer-hostname default, per §6's host/port table.
	bindHost := cfg.ActHost
	if bindHost == "act" {
		bindHost = "0.0.0.0"
	}

	hw, err := hwBodyFor(actuateBodyName, float64(cfg.StepPeriod.Seconds()))
	if err != nil {
		return err
	}

	ln, err := transport.Listen(bindHost, cfg.ActPort)
	if err != nil {
		return err
	}

	logger, err := telemetrylog.NewHwLogger(cfg.LogDir)
	if err != nil {
		ln.Close()
		return err
	}
	defer logger.Close()

	var recorder *analysisrecorder.Recorder
	if cfg.AnalysisDB != "" {
		recorder, err = analysisrecorder.New(cfg.AnalysisDB)
		if err != nil {
			ln.Close()
			return err
		}
		defer recorder.Close()
	}

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

	conn, err := ln.AcceptOnce()
	if err != nil {
		return err
	}
	defer conn.Close()

	opts := []responder.Option{}
	if cfg.HwDropRate > 0 {
		opts = append(opts, responder.WithDropRate(cfg.HwDropRate))
	}

	r := responder.New(conn, hw.Handler, logger, opts...)

	if recorder != nil || mon != nil {
		var droppedCount int64
		r.WithOnStep(func(rec responder.StepRecord) {
			if rec.Note == "dropped" {
				droppedCount++
			}

			if recorder != nil {
				if err := recorder.InsertHwStep(analysisrecorder.HwStep{
					StepID:     rec.StepID,
					TActRecvNs: rec.TActRecvNs,
					TActSendNs: rec.TActSendNs,
					MissingCmd: rec.MissingCmd,
					Note:       rec.Note,
				}); err != nil {
					fmt.Fprintf(os.Stderr, "analysisrecorder: %v\n", err)
				}
			}

			if mon != nil {
				mon.Update(monitor.Snapshot{
					StepID:       rec.StepID,
					TimeoutCount: droppedCount,
				})
			}
		})
	}

	if err := r.Run(); err != nil {
		return err
	}

	fmt.Println("hilsim: hardware connection closed")
	return nil
}
