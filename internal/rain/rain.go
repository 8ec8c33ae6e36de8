// Package rain turns a monotonically-increasing daily precipitation counter
// into instantaneous and windowed intensity estimates.
package rain

import (
	"math"
	"time"
)

const (
	// historyCap bounds the per-session tip history.
	historyCap = 2000

	// resetEpsilon guards the counter-reset check against float noise.
	resetEpsilon = 1e-6
	// tipEpsilon is the smallest counter change treated as a real tip.
	tipEpsilon = 1e-9

	// firstTipRate is reported after the very first tip, when there is no
	// earlier point to compute a slope from.
	firstTipRate = 0.4

	// decayAfter is the wall-clock silence after which rain is assumed to
	// have stopped, regardless of the stored totals.
	decayAfter = 15 * time.Minute
)

type sample struct {
	epoch int64
	total float64
}

// Rates is the output tuple, all in mm/h. NaN means not computable.
type Rates struct {
	Instant  float64
	Rate1Min float64
	Rate5Min float64
}

// Estimator tracks tip events of one session's cumulative rain counter.
// The counter is non-decreasing while valid; a decrease signals a reset
// (typically midnight) and clears the history. Data epochs and wall-clock
// time are deliberately separate so replayed series stay testable.
type Estimator struct {
	hist       []sample
	lastTip    *sample
	prevTip    *sample
	lastChange time.Time // wall clock of the last detected counter change
}

func NewEstimator() *Estimator {
	return &Estimator{}
}

// Reset clears all history, returning the estimator to its empty state.
func (e *Estimator) Reset() {
	e.hist = nil
	e.lastTip = nil
	e.prevTip = nil
	e.lastChange = time.Time{}
}

// Update feeds one (epoch, cumulative total) sample and returns the current
// rate tuple. wallClock is the host's notion of now, used only for the
// rain-stopped decay rule.
func (e *Estimator) Update(totalMM float64, dataEpoch int64, wallClock time.Time) Rates {
	if math.IsNaN(totalMM) {
		return Rates{Instant: math.NaN(), Rate1Min: math.NaN(), Rate5Min: math.NaN()}
	}

	// Counter reset (e.g. midnight rollover): start over.
	if len(e.hist) > 0 && totalMM+resetEpsilon < e.hist[len(e.hist)-1].total {
		e.Reset()
	}

	// Record a tip only when there is precipitation and the total moved.
	if totalMM > tipEpsilon {
		if len(e.hist) == 0 || math.Abs(totalMM-e.hist[len(e.hist)-1].total) > tipEpsilon {
			if len(e.hist) == historyCap {
				e.hist = e.hist[1:]
			}
			s := sample{epoch: dataEpoch, total: totalMM}
			e.hist = append(e.hist, s)
			e.prevTip = e.lastTip
			e.lastTip = &s
			e.lastChange = wallClock
		}
	}

	return Rates{
		Instant:  e.instantRate(wallClock),
		Rate1Min: e.windowRate(totalMM, dataEpoch, 60),
		Rate5Min: e.windowRate(totalMM, dataEpoch, 300),
	}
}

func (e *Estimator) instantRate(wallClock time.Time) float64 {
	if e.lastTip == nil || e.lastTip.total <= tipEpsilon {
		return math.NaN()
	}
	// No tip for a while: the rain has stopped, even though the last delta
	// is still on record.
	if !e.lastChange.IsZero() && wallClock.Sub(e.lastChange) > decayAfter {
		return math.NaN()
	}
	if e.prevTip == nil {
		return firstTipRate
	}
	dp := e.lastTip.total - e.prevTip.total
	dt := e.lastTip.epoch - e.prevTip.epoch
	if dp <= 0 || dt <= 0 {
		return math.NaN()
	}
	return dp / float64(dt) * 3600.0
}

// windowRate averages intensity over the trailing window. When the history
// does not span the full window it averages from the oldest sample instead
// of reporting zero between discrete tips.
func (e *Estimator) windowRate(totalNow float64, epochNow int64, windowS int64) float64 {
	if len(e.hist) == 0 {
		return math.NaN()
	}
	target := epochNow - windowS

	old := e.hist[0]
	if old.epoch <= target {
		// Newest sample at or before the window start.
		for i := len(e.hist) - 1; i >= 0; i-- {
			if e.hist[i].epoch <= target {
				old = e.hist[i]
				break
			}
		}
	}

	dt := epochNow - old.epoch
	if dt <= 0 {
		return math.NaN()
	}
	dp := totalNow - old.total
	if dp < 0 {
		return math.NaN()
	}
	return dp / float64(dt) * 3600.0
}

// HistoryLen reports the number of recorded tips. Mostly useful for
// diagnostics and tests.
func (e *Estimator) HistoryLen() int { return len(e.hist) }
