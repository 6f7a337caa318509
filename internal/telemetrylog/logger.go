// Package telemetrylog appends one CSV row per step on each side of the
// link. Column order is part of the external contract (SPEC_FULL.md §6),
// so both row types are written with an explicit header and explicit
// field order rather than via reflection. No third-party record-writer
// in the reference corpus improves on encoding/csv for this literal,
// small, fixed-schema format; see DESIGN.md.
package telemetrylog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// SimRow is one Simulator-side StepRecord.
type SimRow struct {
	StepID         int64
	TSimSendNs     int64
	TSimRecvNs     int64
	TActRecvNs     int64
	TActSendNs     int64
	Timeout        bool
	DeadlineMissMs float64
}

// HwRow is one Hardware-side StepRecord.
type HwRow struct {
	StepID     int64
	TActRecvNs int64
	TActSendNs int64
	MissingCmd bool
	Note       string
}

// SimLogger appends SimRows to sim_log.csv, flushing after every row so
// the file is always readable mid-run.
type SimLogger struct {
	file *os.File
	w    *csv.Writer
}

// NewSimLogger creates (or truncates) sim_log.csv under dir and writes
// its header.
func NewSimLogger(dir string) (*SimLogger, error) {
	f, err := createLogFile(dir, "sim_log.csv")
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	header := []string{
		"step_id", "t_sim_send_ns", "t_sim_recv_ns",
		"t_act_recv_ns", "t_act_send_ns", "timeout", "deadline_miss_ms",
	}
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write sim_log.csv header: %w", err)
	}
	w.Flush()

	return &SimLogger{file: f, w: w}, nil
}

// Append writes one row and flushes.
func (l *SimLogger) Append(row SimRow) error {
	record := []string{
		strconv.FormatInt(row.StepID, 10),
		strconv.FormatInt(row.TSimSendNs, 10),
		strconv.FormatInt(row.TSimRecvNs, 10),
		strconv.FormatInt(row.TActRecvNs, 10),
		strconv.FormatInt(row.TActSendNs, 10),
		strconv.FormatBool(row.Timeout),
		strconv.FormatFloat(row.DeadlineMissMs, 'f', 3, 64),
	}
	if err := l.w.Write(record); err != nil {
		return fmt.Errorf("write sim_log.csv row: %w", err)
	}
	l.w.Flush()
	return l.w.Error()
}

// Close flushes and closes the underlying file.
func (l *SimLogger) Close() error {
	l.w.Flush()
	return l.file.Close()
}

// HwLogger appends HwRows to act_log.csv, flushing after every row.
type HwLogger struct {
	file *os.File
	w    *csv.Writer
}

// NewHwLogger creates (or truncates) act_log.csv under dir and writes its
// header.
func NewHwLogger(dir string) (*HwLogger, error) {
	f, err := createLogFile(dir, "act_log.csv")
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	header := []string{"step_id", "t_act_recv_ns", "t_act_send_ns", "missing_cmd", "note"}
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write act_log.csv header: %w", err)
	}
	w.Flush()

	return &HwLogger{file: f, w: w}, nil
}

// Append writes one row and flushes.
func (l *HwLogger) Append(row HwRow) error {
	record := []string{
		strconv.FormatInt(row.StepID, 10),
		strconv.FormatInt(row.TActRecvNs, 10),
		strconv.FormatInt(row.TActSendNs, 10),
		strconv.FormatBool(row.MissingCmd),
		row.Note,
	}
	if err := l.w.Write(record); err != nil {
		return fmt.Errorf("write act_log.csv row: %w", err)
	}
	l.w.Flush()
	return l.w.Error()
}

// Close flushes and closes the underlying file.
func (l *HwLogger) Close() error {
	l.w.Flush()
	return l.file.Close()
}

func createLogFile(dir, name string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory %s: %w", dir, err)
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}

	return f, nil
}
