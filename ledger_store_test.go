package main

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	orders := []Order{
		closedOrder(t, 0, 1000, 110000),
		newOrder(1, at(t, "10:00:00"), 1200, 100),
	}
	ctx := context.Background()
	require.NoError(t, exportLedger(ctx, path, orders, 10000))
	// a second export replaces the table
	require.NoError(t, exportLedger(ctx, path, orders, 10000))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n))
	assert.Equal(t, 2, n)

	var (
		id         string
		closeTime  sql.NullString
		profit     int64
		net        int64
		netDisplay string
	)
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT id, close_time, profit, net_profit, net_profit_display FROM orders WHERE seq = 0`,
	).Scan(&id, &closeTime, &profit, &net, &netDisplay))
	assert.Equal(t, orders[0].ID, id)
	assert.True(t, closeTime.Valid)
	assert.Equal(t, int64(10000), profit)
	assert.Equal(t, orders[0].NetProfit(), net)
	assert.Equal(t, displayAmount(orders[0].NetProfit(), 10000).StringFixed(2), netDisplay)

	require.NoError(t, db.QueryRowContext(ctx, `SELECT close_time FROM orders WHERE seq = 1`).Scan(&closeTime))
	assert.False(t, closeTime.Valid)
}

func TestExportLedger_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	require.NoError(t, exportLedger(context.Background(), path, nil, 10000))
}

func TestExportLedger_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "ledger.db")
	assert.Error(t, exportLedger(context.Background(), path, nil, 10000))
}
