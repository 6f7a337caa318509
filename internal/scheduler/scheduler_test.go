package scheduler_test

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hilsim/internal/callbacks"
	"hilsim/internal/responder"
	"hilsim/internal/rxqueue"
	"hilsim/internal/scheduler"
)

func TestRunCompletesAllStepsAgainstLiveResponder(t *testing.T) {
	simConn, hwConn := net.Pipe()
	defer simConn.Close()
	defer hwConn.Close()

	hw := callbacks.NewNumericHwBody()
	r := responder.New(hwConn, hw.Handler, nil)
	go r.Run()

	queue := rxqueue.New(16)
	reader := rxqueue.NewReader(simConn, queue)
	go reader.Run()

	sim := callbacks.NewNumericSimBody()
	s := scheduler.New(simConn, queue, sim, scheduler.Config{
		Period:       2 * time.Millisecond,
		ReplyTimeout: 20 * time.Millisecond,
		TotalSteps:   5,
	}, nil)

	records, err := s.Run()
	require.NoError(t, err)
	require.Len(t, records, 5)

	for i, rec := range records {
		require.Equal(t, int64(i), int64(rec.StepID))
		require.False(t, rec.Timeout, "step %d should not time out against a live responder", i)
	}
}

func TestRunRecordsTimeoutWhenNoPeerResponds(t *testing.T) {
	simConn, hwConn := net.Pipe()
	defer simConn.Close()

	// Drain writes on the other end so the scheduler's Write calls don't
	// block, but never answer with telemetry.
	go func() {
		buf := make([]byte, 4096)
		for {
			if _, err := hwConn.Read(buf); err != nil {
				return
			}
		}
	}()

	queue := rxqueue.New(16)
	reader := rxqueue.NewReader(simConn, queue)
	go reader.Run()

	sim := callbacks.NewNumericSimBody()
	s := scheduler.New(simConn, queue, sim, scheduler.Config{
		Period:       2 * time.Millisecond,
		ReplyTimeout: 2 * time.Millisecond,
		TotalSteps:   3,
	}, nil)

	records, err := s.Run()
	require.NoError(t, err)
	require.Len(t, records, 3)

	for _, rec := range records {
		require.True(t, rec.Timeout)
	}
}
