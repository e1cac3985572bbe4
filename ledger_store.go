// FILE: ledger_store.go
// Package main – SQLite export of the final order ledger.
//
// The ledger of a finished run is written to table `orders` (replaced on
// every export) in creation order, one transaction per export. Raw minor
// units are kept next to display-unit text columns. Nothing is ever read
// back into an engine.

package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const ledgerSchema = `
CREATE TABLE orders (
	seq            INTEGER PRIMARY KEY,
	id             TEXT NOT NULL UNIQUE,
	open_time      TEXT NOT NULL,
	close_time     TEXT,
	open_price     INTEGER NOT NULL,
	avg_sell_price INTEGER NOT NULL,
	volume         INTEGER NOT NULL,
	remaining      INTEGER NOT NULL,
	force_sell     INTEGER NOT NULL,
	profit         INTEGER NOT NULL,
	tax            INTEGER NOT NULL,
	commission     INTEGER NOT NULL,
	net_profit     INTEGER NOT NULL,
	open_price_display TEXT NOT NULL,
	net_profit_display TEXT NOT NULL
);`

// exportLedger writes orders into the SQLite file at path.
func exportLedger(ctx context.Context, path string, orders []Order, scale int64) (err error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return errors.Wrap(err, "open sqlite")
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DROP TABLE IF EXISTS orders`); err != nil {
		return errors.Wrap(err, "drop orders")
	}
	if _, err = tx.ExecContext(ctx, ledgerSchema); err != nil {
		return errors.Wrap(err, "create orders")
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO orders (
		seq, id, open_time, close_time, open_price, avg_sell_price, volume, remaining,
		force_sell, profit, tax, commission, net_profit, open_price_display, net_profit_display
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	for _, o := range orders {
		var closeTime sql.NullString
		if !o.CloseTime.IsZero() {
			closeTime = sql.NullString{String: o.CloseTime.Format(time.RFC3339), Valid: true}
		}
		_, err = stmt.ExecContext(ctx,
			o.Seq, o.ID, o.OpenTime.Format(time.RFC3339), closeTime,
			int64(o.OpenPrice), int64(o.AvgSellPrice), int64(o.Volume), int64(o.Remaining),
			o.ForceSell, o.Profit, int64(o.Tax), int64(o.Commission), o.NetProfit(),
			displayAmount(int64(o.OpenPrice), scale).String(),
			displayAmount(o.NetProfit(), scale).StringFixed(2),
		)
		if err != nil {
			return errors.Wrapf(err, "insert order %d", o.Seq)
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	return nil
}
