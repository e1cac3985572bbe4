package main

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedOrder(t *testing.T, seq int, open, gross uint64) Order {
	t.Helper()
	o := newOrder(seq, at(t, "09:30:01"), open, 100)
	require.True(t, o.applyFill(Fill{Value: gross, Volume: 100}, at(t, "09:31:00"), DefaultFees()))
	return o
}

func TestSummarize(t *testing.T) {
	win := closedOrder(t, 0, 1000, 110000)  // +10000
	loss := closedOrder(t, 1, 1000, 95000)  // -5000
	flat := closedOrder(t, 2, 1000, 100000) // 0 counts as a loss
	open := newOrder(3, at(t, "10:00:00"), 1000, 100)

	s := Summarize([]Order{win, loss, flat, open})
	assert.Equal(t, 4, s.Orders)
	assert.Equal(t, 1, s.Open)
	require.Len(t, s.Wins, 1)
	assert.Equal(t, win.ID, s.Wins[0].ID)
	assert.Len(t, s.Losses, 3)
	assert.Equal(t, int64(5000), s.Profit)
	assert.Equal(t, win.Fees()+loss.Fees()+flat.Fees(), s.Fees)
	assert.Equal(t, int64(5000)-int64(s.Fees), s.NetProfit)
	assert.Equal(t, "0.25", s.WinRate().String())
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Orders)
	assert.True(t, s.WinRate().IsZero())
}

func TestDisplayAmount(t *testing.T) {
	assert.Equal(t, "12.3456", displayAmount(123456, 10000).String())
	assert.Equal(t, "-0.50", displayAmount(-5000, 10000).StringFixed(2))
}

func TestLogReport(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	logReport(Summarize([]Order{closedOrder(t, 0, 1000, 110000)}), 10000)

	var msgs []string
	for _, e := range hook.AllEntries() {
		if e.Data["component"] == "report" && e.Level == logrus.InfoLevel {
			msgs = append(msgs, e.Message)
		}
	}
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs, "profit: 1.00")
	assert.Contains(t, msgs, "profit wins:")
	assert.Contains(t, msgs, "profit lose:")
}
