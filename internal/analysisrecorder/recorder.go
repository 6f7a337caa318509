// Package analysisrecorder mirrors every step record into a SQLite
// database for offline querying, adapted from the corpus's generic
// datarecording.DataRecorder. Unlike that recorder this one is narrowed
// to the two StepRecord shapes the runtime actually produces (no
// reflection-driven CreateTable at arbitrary call sites) and returns
// errors instead of panicking, since a recorder failure must never take
// down the mandatory CSV log path alongside it.
package analysisrecorder

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/fatih/structs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

const flushBatchSize = 500

// SimStep mirrors telemetrylog.SimRow in analysisrecorder's own type so
// this package has no import dependency on telemetrylog; the two are
// kept field-for-field identical by convention, not by sharing a type.
type SimStep struct {
	StepID         int64
	TSimSendNs     int64
	TSimRecvNs     int64
	TActRecvNs     int64
	TActSendNs     int64
	Timeout        bool
	DeadlineMissMs float64
}

// HwStep mirrors telemetrylog.HwRow.
type HwStep struct {
	StepID     int64
	TActRecvNs int64
	TActSendNs int64
	MissingCmd bool
	Note       string
}

// Recorder batches SimStep and HwStep rows into a SQLite file, flushing
// in a single transaction every flushBatchSize rows and once more on
// Close. A zero value is not usable; construct with New.
type Recorder struct {
	db         *sql.DB
	simBuf     []SimStep
	hwBuf      []HwStep
	entryCount int
}

// New opens (creating if necessary) a SQLite database at path, or at a
// generated xid-suffixed filename if path is empty, and creates the
// sim_steps/act_steps tables. It registers a flush with
// github.com/tebeka/atexit, matching the corpus's own recorder; that
// handler runs only when the process exits through atexit.Exit, not on a
// plain os.Exit.
func New(path string) (*Recorder, error) {
	if path == "" {
		path = "hilsim_analysis_" + xid.New().String() + ".sqlite3"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("analysisrecorder: open %s: %w", path, err)
	}

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS sim_steps (
			step_id INTEGER, t_sim_send_ns INTEGER, t_sim_recv_ns INTEGER,
			t_act_recv_ns INTEGER, t_act_send_ns INTEGER, timeout INTEGER, deadline_miss_ms REAL
		)`,
		`CREATE TABLE IF NOT EXISTS act_steps (
			step_id INTEGER, t_act_recv_ns INTEGER, t_act_send_ns INTEGER, missing_cmd INTEGER, note TEXT
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("analysisrecorder: create table: %w", err)
		}
	}

	r := &Recorder{db: db}
	atexit.Register(func() { _ = r.Flush() })

	return r, nil
}

// InsertSimStep buffers a Simulator-side row, flushing automatically once
// the combined buffer reaches flushBatchSize.
func (r *Recorder) InsertSimStep(row SimStep) error {
	r.simBuf = append(r.simBuf, row)
	r.entryCount++
	return r.maybeAutoFlush()
}

// InsertHwStep buffers a Hardware-side row, flushing automatically once
// the combined buffer reaches flushBatchSize.
func (r *Recorder) InsertHwStep(row HwStep) error {
	r.hwBuf = append(r.hwBuf, row)
	r.entryCount++
	return r.maybeAutoFlush()
}

func (r *Recorder) maybeAutoFlush() error {
	if r.entryCount >= flushBatchSize {
		return r.Flush()
	}
	return nil
}

// Flush writes every buffered row in a single transaction.
func (r *Recorder) Flush() error {
	if len(r.simBuf) == 0 && len(r.hwBuf) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("analysisrecorder: begin transaction: %w", err)
	}

	if len(r.simBuf) > 0 {
		if err := insertRows(tx, "sim_steps", sampleFieldNames(SimStep{}), r.simBuf); err != nil {
			tx.Rollback()
			return err
		}
	}
	if len(r.hwBuf) > 0 {
		if err := insertRows(tx, "act_steps", sampleFieldNames(HwStep{}), r.hwBuf); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("analysisrecorder: commit: %w", err)
	}

	r.simBuf = nil
	r.hwBuf = nil
	r.entryCount = 0
	return nil
}

// Close flushes any buffered rows and closes the underlying database.
func (r *Recorder) Close() error {
	if err := r.Flush(); err != nil {
		return err
	}
	return r.db.Close()
}

func sampleFieldNames(sample any) []string {
	return structs.Names(sample)
}

func insertRows[T any](tx *sql.Tx, table string, columns []string, rows []T) error {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	insertSQL := fmt.Sprintf("INSERT INTO %s VALUES (%s)", table, strings.Join(placeholders, ", "))

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("analysisrecorder: prepare insert into %s: %w", table, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		values := structs.Values(row)
		if _, err := stmt.Exec(values...); err != nil {
			return fmt.Errorf("analysisrecorder: insert into %s: %w", table, err)
		}
	}

	return nil
}
