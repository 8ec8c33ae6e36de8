package pressure

import "math"

// Classification thresholds in hPa over three hours.
const (
	StableThreshold = 0.2
	RapidChange     = 2.0

	trendWindowS = 3 * 3600
)

// TwoPoint is a remote pressure pair supplied by a provider's history
// endpoint. Fields are NaN when the provider had nothing to offer; epochs
// are float64 so missing-ness propagates the same way as every other field.
type TwoPoint struct {
	PNow       float64
	EpochNow   float64
	P3hAgo     float64
	Epoch3hAgo float64
}

func (tp TwoPoint) valid() bool {
	return !math.IsNaN(tp.PNow) && !math.IsNaN(tp.EpochNow) &&
		!math.IsNaN(tp.P3hAgo) && !math.IsNaN(tp.Epoch3hAgo) &&
		tp.EpochNow > tp.Epoch3hAgo
}

// Trend is a classified pressure tendency.
type Trend struct {
	Delta       float64
	RatePerHour float64
	Label       string
	Arrow       string
}

func neutralTrend() Trend {
	return Trend{Delta: math.NaN(), RatePerHour: math.NaN(), Label: "No trend", Arrow: "•"}
}

// Compute derives the 3-hour tendency. The remote two-point reference wins
// when complete; otherwise the local history is consulted; the two sources
// are never mixed within one calculation.
func Compute(remote TwoPoint, hist *History) Trend {
	if remote.valid() {
		dp := remote.PNow - remote.P3hAgo
		dtH := (remote.EpochNow - remote.Epoch3hAgo) / 3600.0
		return classify(dp, dp/dtH)
	}
	return localTrend(hist)
}

func localTrend(hist *History) Trend {
	if hist == nil || len(hist.samples) < 2 {
		return neutralTrend()
	}

	latest := hist.samples[len(hist.samples)-1]
	target := latest.epoch - trendWindowS

	// Newest sample at or before the window start, or the oldest available
	// when the history does not yet span three hours.
	old := hist.samples[0]
	for _, s := range hist.samples {
		if s.epoch <= target {
			old = s
		} else {
			break
		}
	}

	dt := latest.epoch - old.epoch
	if dt <= 0 {
		return neutralTrend()
	}
	dp := latest.hPa - old.hPa
	return classify(dp, dp/(float64(dt)/3600.0))
}

// classify is shared by both strategies. The stable band is strict: a delta
// exactly at StableThreshold already counts as a directional change.
func classify(dp, ratePerHour float64) Trend {
	t := Trend{Delta: dp, RatePerHour: ratePerHour}
	switch {
	case math.Abs(dp) < StableThreshold:
		t.Label, t.Arrow = "Stable", "→"
	case dp > RapidChange:
		t.Label, t.Arrow = "Rising fast", "⬆"
	case dp > 0:
		t.Label, t.Arrow = "Rising", "↗"
	case dp < -RapidChange:
		t.Label, t.Arrow = "Falling fast", "⬇"
	default:
		t.Label, t.Arrow = "Falling", "↘"
	}
	return t
}

// Outlook maps finer delta bands to a plain-language weather outlook. This
// is advisory text, not a physical model.
func Outlook(dp float64) string {
	switch {
	case math.IsNaN(dp):
		return "Insufficient data"
	case math.Abs(dp) < 0.5:
		return "Settled conditions"
	case dp > 3:
		return "Improving fast, high pressure moving in"
	case dp > 1.5:
		return "Gradual improvement, clearing skies"
	case dp > 0:
		return "Slight improvement"
	case dp < -3:
		return "Deteriorating fast, storm possible"
	case dp < -1.5:
		return "Gradual deterioration, rain likely"
	default:
		return "Slight deterioration"
	}
}
