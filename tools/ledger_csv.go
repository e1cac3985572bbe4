// tools/ledger_csv.go
// CLI to flatten a backtest ledger (SQLite, written with -ledger-db) into CSV.
//
// Usage:
//   go run ./tools -in ledger.db -out data/ledger.csv
//   go run ./tools -in ledger.db -closed         # stdout, closed orders only
//
// Notes:
// - Rows come out in creation order (seq).
// - Amounts stay in minor units; the *_display columns carry display units.
// - Open orders have an empty close_time.
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// ledgerRow is one row of table orders.
type ledgerRow struct {
	Seq          int64
	ID           string
	OpenTime     string
	CloseTime    sql.NullString
	OpenPrice    int64
	AvgSellPrice int64
	Volume       int64
	Remaining    int64
	ForceSell    bool
	Profit       int64
	Tax          int64
	Commission   int64
	NetProfit    int64
	NetDisplay   string
}

var csvHeader = []string{
	"seq", "id", "open_time", "close_time", "open_price", "avg_sell_price",
	"volume", "remaining", "force_sell", "profit", "tax", "commission",
	"net_profit", "net_profit_display",
}

func main() {
	in := flag.String("in", "", "path to ledger SQLite file")
	out := flag.String("out", "", "CSV output path (stdout when empty)")
	closedOnly := flag.Bool("closed", false, "skip orders that still hold volume")
	flag.Parse()

	if *in == "" {
		exitf("missing -in <file>")
	}
	if _, err := os.Stat(*in); err != nil {
		exitf("ledger: %v", err)
	}

	rows, err := readLedger(context.Background(), *in, *closedOnly)
	if err != nil {
		exitf("read ledger: %v", err)
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
			exitf("ensure out dir: %v", err)
		}
		f, err := os.Create(*out)
		if err != nil {
			exitf("create out: %v", err)
		}
		defer f.Close()
		w = f
	}
	if err := writeLedgerCSV(w, rows); err != nil {
		exitf("write csv: %v", err)
	}
	if *out != "" {
		fmt.Fprintf(os.Stderr, "%d orders written to: %s\n", len(rows), *out)
	}
}

func readLedger(ctx context.Context, path string, closedOnly bool) ([]ledgerRow, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	defer db.Close()

	q := `SELECT seq, id, open_time, close_time, open_price, avg_sell_price, volume, remaining,
		force_sell, profit, tax, commission, net_profit, net_profit_display FROM orders`
	if closedOnly {
		q += ` WHERE remaining = 0`
	}
	rs, err := db.QueryContext(ctx, q+` ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrap(err, "query orders")
	}
	defer rs.Close()

	var out []ledgerRow
	for rs.Next() {
		var r ledgerRow
		if err := rs.Scan(&r.Seq, &r.ID, &r.OpenTime, &r.CloseTime, &r.OpenPrice, &r.AvgSellPrice,
			&r.Volume, &r.Remaining, &r.ForceSell, &r.Profit, &r.Tax, &r.Commission,
			&r.NetProfit, &r.NetDisplay); err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		out = append(out, r)
	}
	return out, errors.Wrap(rs.Err(), "iterate orders")
}

func writeLedgerCSV(w io.Writer, rows []ledgerRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	i64 := func(v int64) string { return strconv.FormatInt(v, 10) }
	for _, r := range rows {
		rec := []string{
			i64(r.Seq), r.ID, r.OpenTime, r.CloseTime.String,
			i64(r.OpenPrice), i64(r.AvgSellPrice), i64(r.Volume), i64(r.Remaining),
			strconv.FormatBool(r.ForceSell),
			i64(r.Profit), i64(r.Tax), i64(r.Commission), i64(r.NetProfit), r.NetDisplay,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exitf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "ledger_csv: "+format+"\n", a...)
	os.Exit(1)
}
