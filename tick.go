// FILE: tick.go
// Package main – Market data types replayed by the backtester.
//
// A Tick is one order-book snapshot for the instrument: last traded price,
// ten ranked ask and bid levels and the day's limit-up / limit-down bounds.
// Prices and volumes are integers in the feed's minor unit; there is no
// floating-point currency anywhere in the engine.
//
// Ticks are produced once per CSV row by the ingestion adapter (backtest.go)
// and are read-only from then on.

package main

import "time"

// BookDepth is the number of ranked levels carried per book side.
const BookDepth = 10

// Level is one ranked (price, volume) pair of the book.
type Level struct {
	Price  uint64
	Volume uint64
}

// Tick is the normalized order-book snapshot the engine consumes.
type Tick struct {
	Code  string
	Time  time.Time
	Price uint64 // last traded price

	Asks [BookDepth]Level // best (lowest) first
	Bids [BookDepth]Level // best (highest) first

	HighLimit uint64 // limit-up price, already scaled to Price units
	LowLimit  uint64 // limit-down price, already scaled to Price units
}

// BestAsk returns the top-of-book ask price (0 when the side is empty).
func (t Tick) BestAsk() uint64 { return t.Asks[0].Price }

// LimitUp reports whether the last price sits on the limit-up bound.
func (t Tick) LimitUp() bool { return t.Price == t.HighLimit }

// LimitDown reports whether the last price sits on the limit-down bound.
func (t Tick) LimitDown() bool { return t.Price == t.LowLimit }
