// Package scheduler implements the Simulator role: a fixed-period
// pacemaker that, for each step, sends one command, polls the
// asynchronous receive queue for a matching reply up to a wall-clock
// timeout, advances the plant, and sleeps out whatever period remains —
// logging a deadline miss instead of sleeping when the step overran.
// Grounded step-for-step on the original reference implementation's
// hils/sim/sim.py main loop.
package scheduler

import (
	"fmt"
	"io"
	"time"

	"hilsim/internal/callbacks"
	"hilsim/internal/clock"
	"hilsim/internal/hilerr"
	"hilsim/internal/rxqueue"
	"hilsim/internal/telemetrylog"
	"hilsim/internal/wire"
)

// pollInterval is how long the reply-wait loop sleeps between empty
// queue polls, matching the original's time.sleep(0.0002).
const pollInterval = 200 * time.Microsecond

// Conn is the minimal write surface the scheduler needs to send
// commands. The receive side is the Queue passed to New, filled by an
// rxqueue.Reader that the caller starts.
type Conn interface {
	io.Writer
}

// Config bundles the scheduler's fixed run parameters.
type Config struct {
	Period       time.Duration
	ReplyTimeout time.Duration
	TotalSteps   int64
}

// StepRecord is one fully settled step, ready to be logged.
type StepRecord struct {
	StepID         wire.StepID
	TSimSendNs     int64
	TSimRecvNs     int64
	TActRecvNs     int64
	TActSendNs     int64
	Timeout        bool
	DeadlineMissMs float64
}

// Scheduler drives the Simulator's periodic loop over a single
// connection, using body to generate commands and advance plant state.
type Scheduler struct {
	conn   Conn
	queue  *rxqueue.Queue
	body   callbacks.SimBody
	cfg    Config
	logger *telemetrylog.SimLogger
	onStep func(StepRecord)
}

// New creates a Scheduler. logger may be nil to disable logging.
func New(conn Conn, queue *rxqueue.Queue, body callbacks.SimBody, cfg Config, logger *telemetrylog.SimLogger) *Scheduler {
	return &Scheduler{conn: conn, queue: queue, body: body, cfg: cfg, logger: logger}
}

// WithOnStep registers a callback invoked once per completed step, after
// logging, with that step's settled record. Intended for the debug
// monitor to keep its snapshot live without the scheduler importing it
// directly.
func (s *Scheduler) WithOnStep(fn func(StepRecord)) *Scheduler {
	s.onStep = fn
	return s
}

// Run executes cfg.TotalSteps steps, one per period, returning the
// settled record of each step in order. It only returns early on a send
// or encode failure or a failed write to the sim log; a step that times
// out waiting for a reply is still a completed step, not an error.
func (s *Scheduler) Run() ([]StepRecord, error) {
	records := make([]StepRecord, 0, s.cfg.TotalSteps)

	nextDeadline := clock.NowNs()

	for stepID := wire.StepID(0); int64(stepID) < s.cfg.TotalSteps; stepID++ {
		nextDeadline += int64(s.cfg.Period)

		cmd := s.body.Producer.Produce(stepID)
		tSimSend := clock.NowNs()

		msg := wire.CommandMessage{
			StepID:      stepID,
			TimestampNs: tSimSend,
			Cmd:         cmd,
		}

		frame, err := wire.EncodeCommand(msg)
		if err != nil {
			return records, fmt.Errorf("scheduler: step %d: %w: %v", stepID, hilerr.ErrEncode, err)
		}
		if _, err := s.conn.Write(frame); err != nil {
			return records, fmt.Errorf("scheduler: step %d: %w: %v", stepID, hilerr.ErrSend, err)
		}

		gotReply, tel, tSimRecv := s.awaitReply(stepID)

		reply := cmd.Zero()
		if gotReply {
			reply = tel.Payload
		}
		s.body.Updater.Update(stepID, cmd, reply, gotReply)

		now := clock.NowNs()
		slack := nextDeadline - now
		deadlineMissMs := 0.0
		if slack > 0 {
			time.Sleep(time.Duration(slack))
		} else {
			deadlineMissMs = float64(-slack) / 1e6
		}

		record := StepRecord{
			StepID:         stepID,
			TSimSendNs:     tSimSend,
			TSimRecvNs:     tSimRecv,
			Timeout:        !gotReply,
			DeadlineMissMs: deadlineMissMs,
		}
		if gotReply {
			record.TActRecvNs = tel.TActRecvNs
			record.TActSendNs = tel.TActSendNs
		}
		records = append(records, record)

		if s.logger != nil {
			if err := s.logger.Append(telemetrylog.SimRow{
				StepID:         int64(record.StepID),
				TSimSendNs:     record.TSimSendNs,
				TSimRecvNs:     record.TSimRecvNs,
				TActRecvNs:     record.TActRecvNs,
				TActSendNs:     record.TActSendNs,
				Timeout:        record.Timeout,
				DeadlineMissMs: record.DeadlineMissMs,
			}); err != nil {
				return records, fmt.Errorf("scheduler: step %d: write sim log: %w", stepID, err)
			}
		}

		if s.onStep != nil {
			s.onStep(record)
		}
	}

	return records, nil
}

// awaitReply polls the receive queue until it finds telemetry matching
// stepID or the reply timeout elapses. Arrivals for any other step_id —
// stale leftovers from a prior timeout, or (in principle) telemetry that
// arrived early — are discarded rather than requeued, matching the
// original's single-pass queue drain.
func (s *Scheduler) awaitReply(stepID wire.StepID) (gotReply bool, tel wire.TelemetryMessage, tSimRecv int64) {
	deadline := time.Now().Add(s.cfg.ReplyTimeout)

	for time.Now().Before(deadline) {
		arrival, ok := s.queue.TryPop()
		if !ok {
			time.Sleep(pollInterval)
			continue
		}

		candidate, ok := arrival.Telemetry.(wire.TelemetryMessage)
		if !ok || candidate.StepID != stepID {
			continue
		}

		return true, candidate, arrival.ArrivalNs
	}

	return false, wire.TelemetryMessage{}, 0
}
