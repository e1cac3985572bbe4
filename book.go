// FILE: book.go
// Package main – Order-book walker used for simulated fills.
//
// Execution is simulated against the tick's own book, with no market impact:
// liquidity is consumed level by level, best price first, until the target
// quantity is covered. The same walk serves both sides:
//   • buys walk the asks, every level eligible
//   • sells walk the bids, a level is eligible when it meets the resting
//     price (or always, once the order is in force-sell)

package main

import "github.com/pkg/errors"

// ErrLiquidityExhausted means the ten book levels could not cover an order.
var ErrLiquidityExhausted = errors.New("liquidity exhausted")

// OrderSide is the side of a simulated fill.
type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

// Fill is the result of one walk.
type Fill struct {
	Value    uint64 // sum of price*volume taken
	Volume   uint64 // quantity taken
	Levels   int    // levels touched
	Complete bool   // the whole target was covered
}

// eligibleFunc decides whether a level may be filled against.
type eligibleFunc func(Level) bool

func anyLevel(Level) bool { return true }

// atOrAbove accepts bid levels priced at or above limit.
func atOrAbove(limit uint64) eligibleFunc {
	return func(l Level) bool { return l.Price >= limit }
}

// walkBook consumes levels in rank order until qty is covered. When qty fits
// inside a level only qty is taken from it and the walk stops; otherwise the
// whole level is taken and the walk moves on. Empty and ineligible levels
// are skipped.
func walkBook(levels []Level, qty uint64, eligible eligibleFunc) Fill {
	var f Fill
	left := qty
	for _, l := range levels {
		if l.Volume == 0 || !eligible(l) {
			continue
		}
		f.Levels++
		if left <= l.Volume {
			f.Value += left * l.Price
			f.Volume += left
			f.Complete = true
			return f
		}
		f.Value += l.Volume * l.Price
		f.Volume += l.Volume
		left -= l.Volume
	}
	return f
}
