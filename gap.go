// FILE: gap.go
// Package main – Rally ("gap") detector.
//
// The detector keeps a window of recent prices that always starts at its own
// lowest price and never spans more than the configured gap window. The
// rally ratio is how far the latest price sits above that low:
//
//	ratio = (price - min) / min
//
// Per admitted tick (in this order):
//  1. append the tick
//  2. slide by one if last.Time - first.Time >= window
//  3. raise the running max (diagnostic only)
//  4. a new low resets the window to just this tick
//  5. rescan the window min and drop everything before it
//  6. recompute the ratio
package main

import (
	"math"
	"time"
)

// gapPoint is the part of a tick the detector retains.
type gapPoint struct {
	Time  time.Time
	Price uint64
}

// GapDetector tracks the rally off the most recent local bottom.
type GapDetector struct {
	window time.Duration
	points []gapPoint
	min    uint64
	max    uint64
	ratio  float64
}

// NewGapDetector returns an empty detector for the given lookback.
func NewGapDetector(window time.Duration) *GapDetector {
	g := &GapDetector{window: window}
	g.Reset()
	return g
}

// Reset clears the window and the running min/max. The last ratio is kept;
// it is recomputed on the next Update.
func (g *GapDetector) Reset() {
	g.points = g.points[:0]
	g.min = math.MaxUint64
	g.max = 0
}

// Update folds one admitted tick into the window and refreshes the ratio.
func (g *GapDetector) Update(ts time.Time, price uint64) {
	g.points = append(g.points, gapPoint{Time: ts, Price: price})
	if g.points[len(g.points)-1].Time.Sub(g.points[0].Time) >= g.window {
		g.points = g.points[1:]
	}
	if price > g.max {
		g.max = price
	}
	if price < g.min {
		g.min = price
		g.points = append(g.points[:0], gapPoint{Time: ts, Price: price})
	}
	g.refresh(price)
}

// refresh rescans the window minimum, trims the window to start there and
// recomputes the ratio against price.
func (g *GapDetector) refresh(price uint64) {
	if len(g.points) == 0 {
		return
	}
	minIdx := 0
	for i, p := range g.points {
		if p.Price < g.points[minIdx].Price {
			minIdx = i
		}
	}
	g.min = g.points[minIdx].Price
	g.points = g.points[minIdx:]

	if g.min == 0 {
		g.ratio = 0
		return
	}
	g.ratio = (float64(price) - float64(g.min)) / float64(g.min)
}

// Ratio is the last computed rally ratio.
func (g *GapDetector) Ratio() float64 { return g.ratio }

// Min is the running minimum (math.MaxUint64 after a reset).
func (g *GapDetector) Min() uint64 { return g.min }

// Max is the running maximum. Tracked for diagnostics, never used to decide.
func (g *GapDetector) Max() uint64 { return g.max }

// Len is the number of retained points.
func (g *GapDetector) Len() int { return len(g.points) }

// Anchor returns the time of the window's first (lowest) point.
func (g *GapDetector) Anchor() (time.Time, bool) {
	if len(g.points) == 0 {
		return time.Time{}, false
	}
	return g.points[0].Time, true
}

// Prices returns a copy of the retained prices, oldest first.
func (g *GapDetector) Prices() []uint64 {
	out := make([]uint64, len(g.points))
	for i, p := range g.points {
		out[i] = p.Price
	}
	return out
}
