// FILE: report.go
// Package main – End-of-run statistics over the order ledger.
//
// Reads the final ledger only. An order counts as a win when its profit
// (before fees) is positive; everything else, open orders included, is a
// loss. Amounts are carried in minor units and rendered in display units
// (minor / price scale) for the log.

package main

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var reportLog = logrus.WithField("component", "report")

// Summary aggregates a ledger.
type Summary struct {
	Orders    int
	Open      int
	Wins      []Order
	Losses    []Order
	Profit    int64  // sum of order profit, before fees
	Fees      uint64 // tax + commission
	NetProfit int64
}

// Summarize partitions and totals orders.
func Summarize(orders []Order) Summary {
	s := Summary{Orders: len(orders)}
	for _, o := range orders {
		if !o.Closed() {
			s.Open++
		}
		if o.Profit > 0 {
			s.Wins = append(s.Wins, o)
		} else {
			s.Losses = append(s.Losses, o)
		}
		s.Profit += o.Profit
		s.Fees += o.Fees()
	}
	s.NetProfit = s.Profit - int64(s.Fees)
	return s
}

// WinRate is wins over all orders (0 for an empty ledger).
func (s Summary) WinRate() decimal.Decimal {
	if s.Orders == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(len(s.Wins))).Div(decimal.NewFromInt(int64(s.Orders)))
}

// displayAmount converts minor units into display units.
func displayAmount(minor int64, scale int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(decimal.NewFromInt(scale))
}

// logReport prints the totals, then every winning and losing order.
func logReport(s Summary, scale int64) {
	reportLog.WithFields(logrus.Fields{
		"orders":   s.Orders,
		"open":     s.Open,
		"wins":     len(s.Wins),
		"losses":   len(s.Losses),
		"win_rate": s.WinRate().StringFixed(4),
	}).Info("ledger")
	reportLog.Infof("profit: %s", displayAmount(s.Profit, scale).StringFixed(2))
	reportLog.Infof("profit with tax commission: %s", displayAmount(s.NetProfit, scale).StringFixed(2))
	reportLog.Info("profit wins:")
	for _, o := range s.Wins {
		reportLog.Info(o.String())
	}
	reportLog.Info("profit lose:")
	for _, o := range s.Losses {
		reportLog.Info(o.String())
	}
}
