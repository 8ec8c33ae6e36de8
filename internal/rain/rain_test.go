package rain

import (
	"math"
	"testing"
	"time"
)

const baseEpoch = int64(1700000000)

func wall(epoch int64) time.Time { return time.Unix(epoch, 0) }

func TestEstimatorTipSequence(t *testing.T) {
	e := NewEstimator()

	// Dry counter: nothing computable yet.
	r := e.Update(0, baseEpoch, wall(baseEpoch))
	if !math.IsNaN(r.Instant) || !math.IsNaN(r.Rate1Min) || !math.IsNaN(r.Rate5Min) {
		t.Fatalf("dry counter should yield all NaN, got %+v", r)
	}

	// First tip: no slope available, bootstrap rate.
	r = e.Update(0.4, baseEpoch+120, wall(baseEpoch+120))
	if r.Instant != 0.4 {
		t.Errorf("first tip instant = %v, want 0.4", r.Instant)
	}

	// Second tip 0.4 mm over 120 s: 12 mm/h.
	r = e.Update(0.8, baseEpoch+240, wall(baseEpoch+240))
	if math.Abs(r.Instant-12.0) > 1e-9 {
		t.Errorf("instant = %v, want 12.0", r.Instant)
	}
	// Both windows only reach back to the first tip here, same slope.
	if math.Abs(r.Rate1Min-12.0) > 1e-9 {
		t.Errorf("1-min rate = %v, want 12.0", r.Rate1Min)
	}
	if math.Abs(r.Rate5Min-12.0) > 1e-9 {
		t.Errorf("5-min rate = %v, want 12.0", r.Rate5Min)
	}
}

func TestEstimatorRepeatedTotalKeepsInstant(t *testing.T) {
	e := NewEstimator()
	e.Update(0.4, baseEpoch, wall(baseEpoch))
	e.Update(0.8, baseEpoch+120, wall(baseEpoch+120))

	// Same total two minutes later: not a tip, instant still reflects the
	// last slope because the silence is under the decay limit.
	r := e.Update(0.8, baseEpoch+240, wall(baseEpoch+240))
	if math.Abs(r.Instant-12.0) > 1e-9 {
		t.Errorf("instant = %v, want 12.0", r.Instant)
	}
	if e.HistoryLen() != 2 {
		t.Errorf("history length = %d, want 2", e.HistoryLen())
	}
}

func TestEstimatorDecayAfterSilence(t *testing.T) {
	e := NewEstimator()
	e.Update(0.4, baseEpoch, wall(baseEpoch))
	e.Update(0.8, baseEpoch+120, wall(baseEpoch+120))

	// Sixteen minutes of wall-clock silence: rain has stopped.
	later := wall(baseEpoch + 120).Add(16 * time.Minute)
	r := e.Update(0.8, baseEpoch+1080, later)
	if !math.IsNaN(r.Instant) {
		t.Errorf("instant after silence = %v, want NaN", r.Instant)
	}
	// The windows still see a flat counter: zero intensity, not NaN.
	if r.Rate5Min != 0 {
		t.Errorf("5-min rate after silence = %v, want 0", r.Rate5Min)
	}
}

func TestEstimatorCounterReset(t *testing.T) {
	e := NewEstimator()
	e.Update(5.2, baseEpoch, wall(baseEpoch))
	e.Update(5.6, baseEpoch+60, wall(baseEpoch+60))

	// Midnight rollover: the counter drops. History clears and the next
	// tip bootstraps again.
	r := e.Update(0.2, baseEpoch+120, wall(baseEpoch+120))
	if r.Instant != firstTipRate {
		t.Errorf("instant after reset = %v, want %v", r.Instant, firstTipRate)
	}
	if e.HistoryLen() != 1 {
		t.Errorf("history length after reset = %d, want 1", e.HistoryLen())
	}
}

func TestEstimatorNaNTotal(t *testing.T) {
	e := NewEstimator()
	e.Update(0.4, baseEpoch, wall(baseEpoch))
	r := e.Update(math.NaN(), baseEpoch+60, wall(baseEpoch+60))
	if !math.IsNaN(r.Instant) || !math.IsNaN(r.Rate1Min) || !math.IsNaN(r.Rate5Min) {
		t.Errorf("NaN total should yield all NaN, got %+v", r)
	}
	// The history is untouched; the next real sample picks up again.
	if e.HistoryLen() != 1 {
		t.Errorf("history length = %d, want 1", e.HistoryLen())
	}
}

func TestEstimatorRatesNeverNegative(t *testing.T) {
	e := NewEstimator()
	totals := []float64{0, 0.2, 0.2, 0.6, 0.6, 0.6, 1.0, 1.2}
	for i, total := range totals {
		epoch := baseEpoch + int64(i)*30
		r := e.Update(total, epoch, wall(epoch))
		for name, v := range map[string]float64{"instant": r.Instant, "1min": r.Rate1Min, "5min": r.Rate5Min} {
			if !math.IsNaN(v) && v < 0 {
				t.Errorf("sample %d: %s rate = %v, must not be negative", i, name, v)
			}
		}
	}
}

func TestEstimatorWindowRates(t *testing.T) {
	e := NewEstimator()
	// Tips every 60 s, 0.2 mm each: steady 12 mm/h.
	var r Rates
	for i := 0; i <= 10; i++ {
		epoch := baseEpoch + int64(i)*60
		r = e.Update(0.2*float64(i+1), epoch, wall(epoch))
	}
	if math.Abs(r.Rate1Min-12.0) > 1e-6 {
		t.Errorf("1-min rate = %v, want 12.0", r.Rate1Min)
	}
	if math.Abs(r.Rate5Min-12.0) > 1e-6 {
		t.Errorf("5-min rate = %v, want 12.0", r.Rate5Min)
	}
}

func TestEstimatorHistoryCap(t *testing.T) {
	e := NewEstimator()
	for i := 0; i < historyCap+100; i++ {
		epoch := baseEpoch + int64(i)*10
		e.Update(0.1*float64(i+1), epoch, wall(epoch))
	}
	if e.HistoryLen() != historyCap {
		t.Errorf("history length = %d, want %d", e.HistoryLen(), historyCap)
	}
}

func TestIntensityLabel(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{math.NaN(), "No precipitation"},
		{0, "No precipitation"},
		{-1, "No precipitation"},
		{0.2, "Trace precipitation"},
		{0.4, "Very light rain"},
		{0.9, "Very light rain"},
		{1.0, "Light rain"},
		{2.5, "Moderately light rain"},
		{6.5, "Moderate rain"},
		{15.9, "Moderate rain"},
		{16.0, "Heavy rain"},
		{40.0, "Very heavy rain"},
		{100.0, "Torrential rain"},
		{250, "Torrential rain"},
	}
	for _, tt := range tests {
		if got := IntensityLabel(tt.rate); got != tt.want {
			t.Errorf("IntensityLabel(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}
