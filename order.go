// FILE: order.go
// Package main – Order ledger entries and realized P/L accounting.
//
// An Order is opened by a buy and then liquidated, possibly across several
// ticks, by the closer. Remaining volume only ever decreases; the tick that
// takes it to zero finalizes profit, tax and commission, which are never
// touched again.
//
// Accounting on the final fill (all integer, minor units):
//   avg sell   = gross proceeds / volume
//   profit     = gross proceeds - open price * volume
//   tax        = avg sell * volume * TaxPerMille / 1000
//   commission = max(avg sell * volume * rate, floor) + max(open * volume * rate, floor)
//                with rate = CommissionPerTenThousand / 10000

package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// orderNamespace seeds deterministic (v5) order IDs.
var orderNamespace = uuid.MustParse("6f1c2a4e-3d7b-5e21-9a0c-8b4f12d7e9a3")

// FeeSchedule holds the levies charged on a closed order.
type FeeSchedule struct {
	TaxPerMille              uint64 // stamp tax on the sell side
	CommissionPerTenThousand uint64 // broker commission, each side
	CommissionFloor          uint64 // minimum commission per side
}

// DefaultFees is 0.1% tax and 0.03% commission floored at 5 units (x10000).
func DefaultFees() FeeSchedule {
	return FeeSchedule{TaxPerMille: 1, CommissionPerTenThousand: 3, CommissionFloor: 50000}
}

func (f FeeSchedule) tax(notional uint64) uint64 {
	return notional * f.TaxPerMille / 1000
}

func (f FeeSchedule) commission(notional uint64) uint64 {
	c := notional * f.CommissionPerTenThousand / 10000
	if c < f.CommissionFloor {
		return f.CommissionFloor
	}
	return c
}

// Order is one ledger entry.
type Order struct {
	ID  string
	Seq int

	OpenPrice uint64 // volume-weighted average fill at entry
	OpenTime  time.Time
	Volume    uint64
	Remaining uint64

	SellPrice uint64 // resting sell price, 0 until first set
	ForceSell bool   // set once the forced-liquidation delay passed
	CloseTime time.Time

	AvgSellPrice uint64
	Profit       int64 // gross proceeds while open, net of cost once closed
	Tax          uint64
	Commission   uint64
}

func newOrder(seq int, openTime time.Time, openPrice, volume uint64) Order {
	name := fmt.Sprintf("%d/%d", seq, openTime.UnixNano())
	return Order{
		ID:        uuid.NewSHA1(orderNamespace, []byte(name)).String(),
		Seq:       seq,
		OpenPrice: openPrice,
		OpenTime:  openTime,
		Volume:    volume,
		Remaining: volume,
	}
}

// Closed reports whether the order has been fully sold.
func (o *Order) Closed() bool { return o.Remaining == 0 }

// Fees is tax plus commission.
func (o *Order) Fees() uint64 { return o.Tax + o.Commission }

// NetProfit is profit after tax and commission.
func (o *Order) NetProfit() int64 { return o.Profit - int64(o.Fees()) }

// applyFill books a sell fill. It returns true when the fill closed the order.
func (o *Order) applyFill(f Fill, at time.Time, fees FeeSchedule) bool {
	if o.Closed() || f.Volume == 0 {
		return false
	}
	o.Profit += int64(f.Value)
	o.Remaining -= f.Volume
	if o.Remaining > 0 {
		return false
	}
	o.finalize(at, fees)
	return true
}

func (o *Order) finalize(at time.Time, fees FeeSchedule) {
	o.AvgSellPrice = uint64(o.Profit) / o.Volume
	o.Profit -= int64(o.OpenPrice * o.Volume)
	o.Tax = fees.tax(o.AvgSellPrice * o.Volume)
	o.Commission = fees.commission(o.AvgSellPrice*o.Volume) + fees.commission(o.OpenPrice*o.Volume)
	o.CloseTime = at
}

func (o Order) String() string {
	return fmt.Sprintf("open price:%d sell price:%d buy time:%s sell time:%s volume:%d left:%d profit:%d tax:%d commission:%d",
		o.OpenPrice, o.AvgSellPrice, o.OpenTime.Format(time.TimeOnly), o.closeTimeString(), o.Volume, o.Remaining, o.Profit, o.Tax, o.Commission)
}

func (o Order) closeTimeString() string {
	if o.CloseTime.IsZero() {
		return "-"
	}
	return o.CloseTime.Format(time.TimeOnly)
}
