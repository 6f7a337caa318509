package analysisrecorder_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"hilsim/internal/analysisrecorder"
)

func TestInsertAndFlushPersistsRows(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "analysis.sqlite3")

	r, err := analysisrecorder.New(dbPath)
	require.NoError(t, err)

	require.NoError(t, r.InsertSimStep(analysisrecorder.SimStep{StepID: 1, TSimSendNs: 100}))
	require.NoError(t, r.InsertHwStep(analysisrecorder.HwStep{StepID: 1, TActRecvNs: 150, Note: "processed"}))
	require.NoError(t, r.Close())

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM sim_steps").Scan(&count))
	require.Equal(t, 1, count)

	require.NoError(t, db.QueryRow("SELECT count(*) FROM act_steps").Scan(&count))
	require.Equal(t, 1, count)
}

func TestFlushWithNoRowsIsANoop(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.sqlite3")

	r, err := analysisrecorder.New(dbPath)
	require.NoError(t, err)
	require.NoError(t, r.Flush())
	require.NoError(t, r.Close())
}
