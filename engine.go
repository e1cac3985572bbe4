// FILE: engine.go
// Package main – Strategy engine: session gate, gap update, buy, sell.
//
// The engine is the single owner of all mutable backtest state (gap window,
// order ledger). ProcessTick advances it by exactly one tick in a fixed order:
//
//	gate → gap update → buy evaluation → sell evaluation
//
// Ticks outside the trading sessions are dropped with no state change.
//
// Buy ("can buy"):
//   - never at limit-up
//   - rally ratio must exceed BuyPoint
//   - first order always allowed; afterwards only once BuyCooldown has
//     elapsed since the most recent order's open time
//   - fills BuyVolume against the asks, then restarts gap tracking
//
// Sell, per order with volume left and older than SellDelay:
//   - rest at the best ask the first time
//   - past SellDelay+SellAllDelay, reprice to the last price and go
//     force-sell (permanent); any bid level is then eligible
//   - at limit-down a force-selling order does not trade
//
// Processing is sequential and deterministic: no wall clock, no randomness.

package main

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var engineLog = logrus.WithField("component", "engine")

// StrategyConfig holds the run's strategy knobs.
type StrategyConfig struct {
	BuyPoint     float64       // rally ratio that triggers a buy
	GapWindow    time.Duration // max lookback of the gap window
	BuyVolume    uint64        // fixed quantity per buy
	BuyCooldown  time.Duration // min spacing between buys
	SellDelay    time.Duration // age before an order starts selling
	SellAllDelay time.Duration // extra age before force-sell
}

// Engine replays ticks through the strategy.
type Engine struct {
	cfg    StrategyConfig
	cal    Calendar
	fees   FeeSchedule
	gap    *GapDetector
	orders []Order
}

// NewEngine builds an engine with an empty ledger.
func NewEngine(cfg StrategyConfig, cal Calendar, fees FeeSchedule) *Engine {
	return &Engine{
		cfg:  cfg,
		cal:  cal,
		fees: fees,
		gap:  NewGapDetector(cfg.GapWindow),
	}
}

// ProcessTick advances the engine by one tick. The only error is an ask book
// too thin to fill a triggered buy (wraps ErrLiquidityExhausted).
func (e *Engine) ProcessTick(t Tick) error {
	if !e.cal.IsTradable(t.Time) {
		IncTicks("outside_session")
		return nil
	}
	IncTicks("admitted")

	e.gap.Update(t.Time, t.Price)
	SetGapRatioMetric(e.gap.Ratio())

	if e.canBuy(t) {
		if err := e.buy(t); err != nil {
			return err
		}
	}
	e.sell(t)
	return nil
}

// Orders returns a copy of the ledger in creation order.
func (e *Engine) Orders() []Order {
	out := make([]Order, len(e.orders))
	copy(out, e.orders)
	return out
}

// Gap exposes the detector for inspection.
func (e *Engine) Gap() *GapDetector { return e.gap }

func (e *Engine) lastOrder() (*Order, bool) {
	if len(e.orders) == 0 {
		return nil, false
	}
	return &e.orders[len(e.orders)-1], true
}

func (e *Engine) canBuy(t Tick) bool {
	if t.LimitUp() {
		return false
	}
	if e.gap.Ratio() <= e.cfg.BuyPoint {
		return false
	}
	anchor, _ := e.gap.Anchor()
	last, ok := e.lastOrder()
	if !ok {
		engineLog.Debugf("%s first buy price %d (min price time %s, gap %.5f)",
			t.Time.Format(time.TimeOnly), t.Price, anchor.Format(time.TimeOnly), e.gap.Ratio())
		return true
	}
	if t.Time.Sub(last.OpenTime) > e.cfg.BuyCooldown {
		engineLog.Debugf("%s will buy price %d (min price time %s, gap %.5f), last buy %s + cooldown %s",
			t.Time.Format(time.TimeOnly), t.Price, anchor.Format(time.TimeOnly), e.gap.Ratio(),
			last.OpenTime.Format(time.TimeOnly), e.cfg.BuyCooldown)
		return true
	}
	engineLog.Debugf("%s will not buy price %d inside cooldown (last buy %s + %s)",
		t.Time.Format(time.TimeOnly), t.Price, last.OpenTime.Format(time.TimeOnly), e.cfg.BuyCooldown)
	return false
}

func (e *Engine) buy(t Tick) error {
	fill := walkBook(t.Asks[:], e.cfg.BuyVolume, anyLevel)
	if !fill.Complete {
		return errors.Wrapf(ErrLiquidityExhausted, "buy %d at %s: asks cover only %d",
			e.cfg.BuyVolume, t.Time.Format(time.TimeOnly), fill.Volume)
	}
	o := newOrder(len(e.orders), t.Time, fill.Value/e.cfg.BuyVolume, e.cfg.BuyVolume)
	e.orders = append(e.orders, o)
	e.gap.Reset()

	IncOrders(SideBuy)
	IncFills(SideBuy, fill.Levels)
	engineLog.WithFields(logrus.Fields{
		"order":  o.ID,
		"price":  o.OpenPrice,
		"volume": o.Volume,
		"levels": fill.Levels,
	}).Debugf("%s buy", t.Time.Format(time.TimeOnly))
	return nil
}

func (e *Engine) sell(t Tick) {
	for i := range e.orders {
		o := &e.orders[i]
		if o.Closed() {
			continue
		}
		age := t.Time.Sub(o.OpenTime)
		if age <= e.cfg.SellDelay {
			continue
		}
		if o.SellPrice == 0 {
			o.SellPrice = t.BestAsk()
			engineLog.Debugf("%s begin to sell at %d (buy time %s) after %s",
				t.Time.Format(time.TimeOnly), o.SellPrice, o.OpenTime.Format(time.TimeOnly), e.cfg.SellDelay)
		}
		if age > e.cfg.SellDelay+e.cfg.SellAllDelay && !o.ForceSell {
			o.SellPrice = t.Price
			o.ForceSell = true
			IncForceSells()
			engineLog.Debugf("%s change price to %d (buy time %s) to sell left %d",
				t.Time.Format(time.TimeOnly), o.SellPrice, o.OpenTime.Format(time.TimeOnly), o.Remaining)
		}
		if o.ForceSell && t.LimitDown() {
			continue
		}

		eligible := atOrAbove(o.SellPrice)
		if o.ForceSell {
			eligible = anyLevel
		}
		fill := walkBook(t.Bids[:], o.Remaining, eligible)
		if fill.Volume == 0 {
			continue
		}
		IncFills(SideSell, fill.Levels)
		if o.applyFill(fill, t.Time, e.fees) {
			ObserveClosed(o)
			engineLog.Debugf("%s sell order: %s", t.Time.Format(time.TimeOnly), o)
			continue
		}
		engineLog.Debugf("%s partial sell %d (left %d, force %v)",
			t.Time.Format(time.TimeOnly), fill.Volume, o.Remaining, o.ForceSell)
	}
}
