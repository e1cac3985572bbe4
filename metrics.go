// FILE: metrics.go
// Package main – Prometheus metrics for the backtest run.
//
// Exposes:
//   • backtest_ticks_total{result}          – ticks by gate result (admitted|outside_session)
//   • backtest_orders_total{side}           – orders opened (BUY)
//   • backtest_fills_total{side}            – book walks that took liquidity
//   • backtest_fill_levels{side}            – book levels touched per fill
//   • backtest_orders_closed_total{result}  – closed orders by net result (win|loss)
//   • backtest_force_sells_total            – force-sell escalations
//   • backtest_gap_ratio                    – latest rally ratio
//   • backtest_realized_net_profit          – net profit of closed orders (minor units)
//
// Registered in init(); written to a textfile at the end of the run and
// optionally served on /metrics by main.go.

package main

import "github.com/prometheus/client_golang/prometheus"

var (
	mtxTicks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backtest_ticks_total",
			Help: "Ticks seen, split by session gate result",
		},
		[]string{"result"},
	)

	mtxOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backtest_orders_total",
			Help: "Orders opened",
		},
		[]string{"side"},
	)

	mtxFills = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backtest_fills_total",
			Help: "Simulated fills against the book",
		},
		[]string{"side"},
	)

	mtxFillLevels = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backtest_fill_levels",
			Help:    "Book levels touched per simulated fill",
			Buckets: prometheus.LinearBuckets(1, 1, BookDepth),
		},
		[]string{"side"},
	)

	mtxClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backtest_orders_closed_total",
			Help: "Fully sold orders by net result (win|loss)",
		},
		[]string{"result"},
	)

	mtxForceSells = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "backtest_force_sells_total",
			Help: "Orders escalated to force-sell",
		},
	)

	mtxGapRatio = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "backtest_gap_ratio",
			Help: "Latest rally ratio off the recent low",
		},
	)

	mtxNetProfit = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "backtest_realized_net_profit",
			Help: "Net profit after tax and commission of closed orders, minor units",
		},
	)
)

func init() {
	prometheus.MustRegister(mtxTicks, mtxOrders, mtxFills, mtxFillLevels)
	prometheus.MustRegister(mtxClosed, mtxForceSells)
	prometheus.MustRegister(mtxGapRatio, mtxNetProfit)
}

func IncTicks(result string)      { mtxTicks.WithLabelValues(result).Inc() }
func IncOrders(side OrderSide)    { mtxOrders.WithLabelValues(string(side)).Inc() }
func IncForceSells()              { mtxForceSells.Inc() }
func SetGapRatioMetric(v float64) { mtxGapRatio.Set(v) }

func IncFills(side OrderSide, levels int) {
	mtxFills.WithLabelValues(string(side)).Inc()
	mtxFillLevels.WithLabelValues(string(side)).Observe(float64(levels))
}

// ObserveClosed records a finalized order.
func ObserveClosed(o *Order) {
	net := o.NetProfit()
	if net > 0 {
		mtxClosed.WithLabelValues("win").Inc()
	} else {
		mtxClosed.WithLabelValues("loss").Inc()
	}
	mtxNetProfit.Add(float64(net))
}

// writeMetricsFile dumps the default registry in text exposition format.
func writeMetricsFile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
