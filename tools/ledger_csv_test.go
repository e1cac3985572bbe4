package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedLedger writes a two-order ledger in the backtester's export layout.
func seedLedger(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE orders (
		seq INTEGER PRIMARY KEY, id TEXT NOT NULL UNIQUE, open_time TEXT NOT NULL, close_time TEXT,
		open_price INTEGER NOT NULL, avg_sell_price INTEGER NOT NULL, volume INTEGER NOT NULL,
		remaining INTEGER NOT NULL, force_sell INTEGER NOT NULL, profit INTEGER NOT NULL,
		tax INTEGER NOT NULL, commission INTEGER NOT NULL, net_profit INTEGER NOT NULL,
		open_price_display TEXT NOT NULL, net_profit_display TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO orders VALUES
		(1, 'b', '2000-01-03T10:00:00+08:00', NULL, 1200, 0, 100, 100, 0, 0, 0, 0, 0, '0.12', '0.00'),
		(0, 'a', '2000-01-03T09:30:01+08:00', '2000-01-03T09:31:00+08:00', 1000, 1100, 100, 0, 1, 10000, 110, 100000, -90110, '0.1', '-9.01')`)
	require.NoError(t, err)
	return path
}

func TestReadLedger(t *testing.T) {
	path := seedLedger(t)

	rows, err := readLedger(context.Background(), path, false)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].ID)
	assert.True(t, rows[0].ForceSell)
	assert.Equal(t, int64(-90110), rows[0].NetProfit)
	assert.False(t, rows[1].CloseTime.Valid)

	rows, err = readLedger(context.Background(), path, true)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(0), rows[0].Seq)
}

func TestReadLedger_NoTable(t *testing.T) {
	_, err := readLedger(context.Background(), filepath.Join(t.TempDir(), "empty.db"), false)
	assert.Error(t, err)
}

func TestWriteLedgerCSV(t *testing.T) {
	rows, err := readLedger(context.Background(), seedLedger(t), false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeLedgerCSV(&buf, rows))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, csvHeader, recs[0])
	assert.Equal(t, []string{
		"0", "a", "2000-01-03T09:30:01+08:00", "2000-01-03T09:31:00+08:00",
		"1000", "1100", "100", "0", "true", "10000", "110", "100000", "-90110", "-9.01",
	}, recs[1])
	assert.Equal(t, "", recs[2][3])
	assert.Equal(t, "false", recs[2][8])
}
