// FILE: backtest.go
// Package main – CSV ingestion and the backtest runner.
//
// What’s here:
//   • loadTicksCSV(path, data)         -> []Tick        : order-book snapshots
//   • loadTransactionsCSV(path, data)  -> []Transaction : trade prints (optional)
//   • runBacktest(ctx, cfg)            -> *Engine       : replays every tick
//
// Notes:
//   • Headers are case-insensitive; unknown columns are ignored.
//   • nTime / Time are HHMMSSmmm on the configured trade date and zone;
//     milliseconds are dropped.
//   • HighLimited / LowLimited are one digit short in the feed and are scaled
//     by 10 here.
//   • Any malformed row or a timestamp going backwards fails the whole load
//     with ErrIngestion; nothing reaches the engine.

package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var backtestLog = logrus.WithField("component", "backtest")

// ErrIngestion marks input that cannot be turned into valid records.
var ErrIngestion = errors.New("ingestion failure")

// limitScale converts the feed's limit prices into price units.
const limitScale = 10

// csvTable reads a headed CSV and hands each row to fn as a lower-cased
// header -> value map. Errors from fn are tagged with the file line.
func csvTable(path string, fn func(row map[string]string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(ErrIngestion, "open %s: %v", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var headers []string
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return errors.Wrapf(ErrIngestion, "%s line %d: %v", path, line, err)
		}
		if headers == nil {
			headers = make([]string, len(rec))
			for j, h := range rec {
				headers[j] = strings.ToLower(strings.TrimSpace(h))
			}
			continue
		}
		row := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(rec) {
				row[h] = strings.TrimSpace(rec[j])
			}
		}
		if err := fn(row); err != nil {
			return errors.Wrapf(err, "%s line %d", path, line)
		}
	}
	if headers == nil {
		return errors.Wrapf(ErrIngestion, "%s: empty file", path)
	}
	return nil
}

// rowReader pulls typed fields out of one row, remembering the first error.
type rowReader struct {
	row map[string]string
	err error
}

func (r *rowReader) num(key string) uint64 {
	if r.err != nil {
		return 0
	}
	v, ok := r.row[strings.ToLower(key)]
	if !ok || v == "" {
		r.err = errors.Wrapf(ErrIngestion, "missing %s", key)
		return 0
	}
	u, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		r.err = errors.Wrapf(ErrIngestion, "%s=%q: not an unsigned integer", key, v)
	}
	return u
}

func (r *rowReader) str(key string) string { return r.row[strings.ToLower(key)] }

// stampTime turns HHMMSSmmm into a timestamp on day.
func stampTime(day time.Time, hhmmssmmm uint64) (time.Time, error) {
	h := hhmmssmmm / 10000000
	m := hhmmssmmm % 10000000 / 100000
	s := hhmmssmmm % 100000 / 1000
	if h > 23 || m > 59 || s > 59 {
		return time.Time{}, errors.Wrapf(ErrIngestion, "bad time %d", hhmmssmmm)
	}
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second), nil
}

// loadTicksCSV reads the tick file; rows must be in time order.
func loadTicksCSV(path string, data DataConfig) ([]Tick, error) {
	day, err := data.tradeDay()
	if err != nil {
		return nil, errors.Wrapf(ErrIngestion, "trade date: %v", err)
	}
	var out []Tick
	err = csvTable(path, func(row map[string]string) error {
		rr := &rowReader{row: row}
		t := Tick{Code: rr.str("chWindCode")}
		nTime := rr.num("nTime")
		t.Price = rr.num("nPrice")
		for i := 0; i < BookDepth; i++ {
			t.Asks[i] = Level{
				Price:  rr.num(fmt.Sprintf("nAskPrice%d", i+1)),
				Volume: rr.num(fmt.Sprintf("nAskVolume%d", i+1)),
			}
			t.Bids[i] = Level{
				Price:  rr.num(fmt.Sprintf("nBidPrice%d", i+1)),
				Volume: rr.num(fmt.Sprintf("nBidVolume%d", i+1)),
			}
		}
		t.HighLimit = rr.num("HighLimited") * limitScale
		t.LowLimit = rr.num("LowLimited") * limitScale
		if rr.err != nil {
			return rr.err
		}
		ts, err := stampTime(day, nTime)
		if err != nil {
			return err
		}
		if n := len(out); n > 0 && ts.Before(out[n-1].Time) {
			return errors.Wrapf(ErrIngestion, "time %s before previous %s",
				ts.Format(time.TimeOnly), out[n-1].Time.Format(time.TimeOnly))
		}
		t.Time = ts
		out = append(out, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Transaction is one trade print from the transaction feed.
type Transaction struct {
	Code     string
	Time     time.Time
	Index    uint64
	Price    uint64
	Volume   uint64
	Turnover uint64
	BSFlag   string // "B", "S" or blank
}

// loadTransactionsCSV reads the optional trade-print file, sorted by time
// then exchange index.
func loadTransactionsCSV(path string, data DataConfig) ([]Transaction, error) {
	day, err := data.tradeDay()
	if err != nil {
		return nil, errors.Wrapf(ErrIngestion, "trade date: %v", err)
	}
	var out []Transaction
	err = csvTable(path, func(row map[string]string) error {
		rr := &rowReader{row: row}
		tx := Transaction{
			Code:   rr.str("Tkr"),
			BSFlag: strings.ToUpper(rr.str("BSFlag")),
		}
		ts := rr.num("Time")
		tx.Index = rr.num("Index")
		tx.Price = rr.num("Price")
		tx.Volume = rr.num("Volume")
		tx.Turnover = rr.num("Turnover")
		if rr.err != nil {
			return rr.err
		}
		at, err := stampTime(day, ts)
		if err != nil {
			return err
		}
		tx.Time = at
		out = append(out, tx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Time.Equal(out[j].Time) {
			return out[i].Time.Before(out[j].Time)
		}
		return out[i].Index < out[j].Index
	})
	return out, nil
}

// TransSummary aggregates trade prints for the run log.
type TransSummary struct {
	Count      int
	BuyVolume  uint64
	SellVolume uint64
	Turnover   uint64
}

func summarizeTransactions(txs []Transaction) TransSummary {
	var s TransSummary
	for _, tx := range txs {
		s.Count++
		s.Turnover += tx.Turnover
		switch tx.BSFlag {
		case "B":
			s.BuyVolume += tx.Volume
		case "S":
			s.SellVolume += tx.Volume
		}
	}
	return s
}

// runBacktest loads the configured data and replays it through a fresh
// engine. Ingestion errors surface before the first tick is processed.
func runBacktest(ctx context.Context, cfg Config) (*Engine, error) {
	ticks, err := loadTicksCSV(cfg.Data.TickData, cfg.Data)
	if err != nil {
		return nil, err
	}
	backtestLog.Infof("loaded %d ticks from %s", len(ticks), cfg.Data.TickData)

	if cfg.Data.TransData != "" {
		txs, err := loadTransactionsCSV(cfg.Data.TransData, cfg.Data)
		if err != nil {
			return nil, err
		}
		s := summarizeTransactions(txs)
		backtestLog.WithFields(logrus.Fields{
			"prints":      s.Count,
			"buy_volume":  s.BuyVolume,
			"sell_volume": s.SellVolume,
			"turnover":    s.Turnover,
		}).Infof("loaded transactions from %s", cfg.Data.TransData)
	}

	eng := NewEngine(cfg.Strategy, cfg.Calendar, cfg.Fees)
	for i, t := range ticks {
		select {
		case <-ctx.Done():
			return eng, errors.Wrap(ctx.Err(), "backtest canceled")
		default:
		}
		if err := eng.ProcessTick(t); err != nil {
			return eng, errors.Wrapf(err, "tick %d", i)
		}
		if i%10000 == 0 {
			backtestLog.Debugf("[BT] i=%d t=%s gap=%.5f orders=%d",
				i, t.Time.Format(time.TimeOnly), eng.Gap().Ratio(), len(eng.orders))
		}
	}
	backtestLog.Infof("backtest complete: %d ticks, %d orders", len(ticks), len(eng.orders))
	return eng, nil
}
