// Package responder implements the Hardware role: a reactive loop over
// the Simulator's single, already accepted connection that answers each incoming
// command with one telemetry reply as soon as its CommandHandler
// returns. Grounded on the original reference implementation's
// hils/act/actuator.py accept/recv/process/send loop, carried over
// verbatim in shape: recv -> stamp t_act_recv -> handle -> stamp
// t_act_send -> send -> log.
package responder

import (
	"errors"
	"fmt"
	"io"
	"math/rand"

	"hilsim/internal/callbacks"
	"hilsim/internal/clock"
	"hilsim/internal/hilerr"
	"hilsim/internal/telemetrylog"
	"hilsim/internal/wire"
)

// Conn is the minimal read/write surface Responder needs from a
// connection, letting tests exercise it over net.Pipe or any io.ReadWriter.
type Conn interface {
	io.Reader
	io.Writer
}

// Option configures a Responder at construction time.
type Option func(*Responder)

// WithDropRate makes the responder silently discard a fraction of
// received commands instead of answering them, simulating a lossy or
// overloaded peer. rate is clamped to [0, 1]. Grounded on SPEC_FULL.md's
// fault-injection scenario (the original implementation has no
// equivalent; this is additive for exercising the scheduler's timeout
// path under repeatable, controllable loss rather than only under
// artificial NETWORK_DELAY_MS).
func WithDropRate(rate float64) Option {
	return func(r *Responder) {
		if rate < 0 {
			rate = 0
		}
		if rate > 1 {
			rate = 1
		}
		r.dropRate = rate
	}
}

// WithRand overrides the random source used to decide drops. Exposed for
// deterministic tests; production callers should leave it unset.
func WithRand(rnd *rand.Rand) Option {
	return func(r *Responder) { r.rnd = rnd }
}

// StepRecord is one handled (or dropped) command, ready to be mirrored
// into the analysis recorder or the debug monitor.
type StepRecord struct {
	StepID     int64
	TActRecvNs int64
	TActSendNs int64
	MissingCmd bool
	Note       string
}

// Responder runs the Hardware's reactive loop over a single connection.
type Responder struct {
	conn     Conn
	handler  callbacks.CommandHandler
	logger   *telemetrylog.HwLogger
	dropRate float64
	rnd      *rand.Rand
	onStep   func(StepRecord)
}

// WithOnStep registers a callback invoked once per received command
// (processed or dropped), after logging, with that step's settled
// record. Mirrors scheduler.Scheduler.WithOnStep, giving the debug
// monitor and the analysis recorder a hook into the Hardware side the
// same way they hook into the Simulator side.
func (r *Responder) WithOnStep(fn func(StepRecord)) *Responder {
	r.onStep = fn
	return r
}

// New creates a Responder bound to conn, dispatching each command to
// handler and appending one row per received command to logger. logger
// may be nil to disable logging.
func New(conn Conn, handler callbacks.CommandHandler, logger *telemetrylog.HwLogger, opts ...Option) *Responder {
	r := &Responder{
		conn:    conn,
		handler: handler,
		logger:  logger,
		rnd:     rand.New(rand.NewSource(1)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes commands until the connection is closed. Matching the
// original actuator loop, any failure to read the next frame (EOF, a
// reset connection, or a malformed frame) ends the loop quietly rather
// than surfacing as a fatal error: a dead or misbehaving peer is simply
// a reason to stop, not a condition the responder can recover from.
func (r *Responder) Run() error {
	for {
		cmd, err := wire.DecodeCommand(r.conn)
		if err != nil {
			if errors.Is(err, hilerr.ErrShortRead) ||
				errors.Is(err, hilerr.ErrBadMagic) ||
				errors.Is(err, hilerr.ErrDecode) ||
				errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("responder: %w", err)
		}

		tActRecv := clock.NowNs()

		if r.dropRate > 0 && r.rnd.Float64() < r.dropRate {
			if r.logger != nil {
				_ = r.logger.Append(telemetrylog.HwRow{
					StepID:     int64(cmd.StepID),
					TActRecvNs: tActRecv,
					TActSendNs: 0,
					MissingCmd: false,
					Note:       "dropped",
				})
			}
			if r.onStep != nil {
				r.onStep(StepRecord{
					StepID:     int64(cmd.StepID),
					TActRecvNs: tActRecv,
					Note:       "dropped",
				})
			}
			continue
		}

		payload := r.handler.Handle(cmd.Cmd)
		tActSend := clock.NowNs()

		tel := wire.TelemetryMessage{
			StepID:     cmd.StepID,
			TActRecvNs: tActRecv,
			TActSendNs: tActSend,
			MissingCmd: false,
			Note:       "processed",
			Payload:    payload,
		}

		frame, err := wire.EncodeTelemetry(tel)
		if err != nil {
			return fmt.Errorf("responder: %w: %w", hilerr.ErrEncode, err)
		}
		if _, err := r.conn.Write(frame); err != nil {
			return fmt.Errorf("responder: %w: %w", hilerr.ErrSend, err)
		}

		if r.logger != nil {
			if err := r.logger.Append(telemetrylog.HwRow{
				StepID:     int64(cmd.StepID),
				TActRecvNs: tActRecv,
				TActSendNs: tActSend,
				MissingCmd: false,
				Note:       "processed",
			}); err != nil {
				return fmt.Errorf("responder: write act log: %w", err)
			}
		}

		if r.onStep != nil {
			r.onStep(StepRecord{
				StepID:     int64(cmd.StepID),
				TActRecvNs: tActRecv,
				TActSendNs: tActSend,
				Note:       "processed",
			})
		}
	}
}
