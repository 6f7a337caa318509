package rxqueue

import (
	"io"
	"sync/atomic"

	"hilsim/internal/clock"
	"hilsim/internal/wire"
)

// Reader owns the read half of the Simulator's connection. It runs on its
// own goroutine, decoding one TelemetryMessage at a time, stamping its
// arrival on the monotonic clock, and pushing it into the shared Queue.
// On read error or EOF it terminates and flips Closed. The scheduler
// does not consult Closed: once the reader stops, the queue gets no more
// arrivals, so each remaining step's bounded reply wait runs out and the
// step is recorded as timed out.
type Reader struct {
	conn    io.Reader
	queue   *Queue
	closed  atomic.Bool
	lastErr atomic.Value
}

// NewReader creates a Reader bound to conn and queue. Call Run to start
// it on its own goroutine.
func NewReader(conn io.Reader, queue *Queue) *Reader {
	return &Reader{conn: conn, queue: queue}
}

// Run decodes frames from the connection until a read error or EOF,
// pushing each successfully decoded telemetry message into the queue. It
// is meant to be invoked with `go reader.Run()`.
func (r *Reader) Run() {
	for {
		tel, err := wire.DecodeTelemetry(r.conn)
		if err != nil {
			r.lastErr.Store(err)
			r.closed.Store(true)
			return
		}

		r.queue.Push(Arrival{
			ArrivalNs: clock.NowNs(),
			Telemetry: tel,
		})
	}
}

// Closed reports whether the reader has terminated (read error or EOF).
func (r *Reader) Closed() bool {
	return r.closed.Load()
}

// Err returns the error that terminated the reader, or nil if it is still
// running.
func (r *Reader) Err() error {
	if v := r.lastErr.Load(); v != nil {
		return v.(error)
	}
	return nil
}
