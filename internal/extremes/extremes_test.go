package extremes

import (
	"math"
	"testing"
	"time"
)

func epochAt(loc *time.Location, y int, m time.Month, d, hh int) int64 {
	return time.Date(y, m, d, hh, 0, 0, 0, loc).Unix()
}

func TestTrackerMinMax(t *testing.T) {
	tr := NewTracker(time.UTC)
	day := func(hh int) int64 { return epochAt(time.UTC, 2026, time.July, 14, hh) }

	tr.Update(12.0, 80, 20, day(6))
	tr.Update(24.5, 45, 55, day(14))
	tr.Update(18.0, 60, 35, day(20))

	ex := tr.Extremes()
	if ex.TempMax != 24.5 || ex.TempMin != 12.0 {
		t.Errorf("temp = [%v, %v], want [12, 24.5]", ex.TempMin, ex.TempMax)
	}
	if ex.RHMax != 80 || ex.RHMin != 45 {
		t.Errorf("rh = [%v, %v], want [45, 80]", ex.RHMin, ex.RHMax)
	}
	if ex.GustMax != 55 {
		t.Errorf("gust max = %v, want 55", ex.GustMax)
	}
}

func TestTrackerDayRollover(t *testing.T) {
	tr := NewTracker(time.UTC)
	tr.Update(30.0, 40, 60, epochAt(time.UTC, 2026, time.July, 14, 23))

	// First sample of the next day wipes yesterday's records entirely.
	tr.Update(16.0, 90, 10, epochAt(time.UTC, 2026, time.July, 15, 0))
	ex := tr.Extremes()
	if ex.TempMax != 16.0 || ex.TempMin != 16.0 {
		t.Errorf("temp after rollover = [%v, %v], want [16, 16]", ex.TempMin, ex.TempMax)
	}
	if ex.GustMax != 10 {
		t.Errorf("gust after rollover = %v, want 10", ex.GustMax)
	}
}

func TestTrackerRolloverUsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	tr := NewTracker(loc)

	// 23:30 local on the 14th and 00:30 local on the 15th straddle the
	// local midnight, so the first sample must be dropped.
	tr.Update(20, 50, 30, time.Date(2026, time.July, 14, 23, 30, 0, 0, loc).Unix())
	tr.Update(18, 55, 25, time.Date(2026, time.July, 15, 0, 30, 0, 0, loc).Unix())

	ex := tr.Extremes()
	if ex.TempMax != 18 || ex.TempMin != 18 {
		t.Errorf("temp = [%v, %v], want only the 15th's sample", ex.TempMin, ex.TempMax)
	}
}

func TestTrackerNaNValuesSkipped(t *testing.T) {
	tr := NewTracker(time.UTC)
	day := epochAt(time.UTC, 2026, time.July, 14, 12)

	tr.Update(math.NaN(), 50, math.NaN(), day)
	ex := tr.Extremes()
	if !math.IsNaN(ex.TempMax) || !math.IsNaN(ex.GustMax) {
		t.Errorf("NaN inputs must not register: %+v", ex)
	}
	if ex.RHMax != 50 || ex.RHMin != 50 {
		t.Errorf("rh = [%v, %v], want [50, 50]", ex.RHMin, ex.RHMax)
	}
}

func TestTrackerEmptyAndReset(t *testing.T) {
	tr := NewTracker(time.UTC)
	ex := tr.Extremes()
	if !math.IsNaN(ex.TempMax) || !math.IsNaN(ex.RHMin) || !math.IsNaN(ex.GustMax) {
		t.Errorf("empty tracker must report all NaN: %+v", ex)
	}

	tr.Update(20, 50, 30, epochAt(time.UTC, 2026, time.July, 14, 12))
	tr.Reset()
	ex = tr.Extremes()
	if !math.IsNaN(ex.TempMax) {
		t.Errorf("reset tracker must report NaN, got %v", ex.TempMax)
	}
}
