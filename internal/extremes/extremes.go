// Package extremes accumulates session-scoped daily min/max of temperature,
// humidity and wind gust, resetting on calendar day rollover.
package extremes

import (
	"math"
	"time"

	"github.com/imartinez/iberoweather/internal/models"
)

// Tracker collects samples for the current calendar day. All stored samples
// belong to the tracked date; an update for a different day resets the
// collections before appending.
type Tracker struct {
	loc  *time.Location
	date time.Time // midnight of the tracked day, in loc

	temps []float64
	rhs   []float64
	gusts []float64
}

func NewTracker(loc *time.Location) *Tracker {
	if loc == nil {
		loc = time.UTC
	}
	return &Tracker{loc: loc}
}

// Update appends the non-NaN values among (temp, rh, gust) for the calendar
// day of epoch.
func (t *Tracker) Update(tempC, rhPct, gustKmh float64, epoch int64) {
	day := dateOf(epoch, t.loc)
	if !day.Equal(t.date) {
		t.date = day
		t.temps = nil
		t.rhs = nil
		t.gusts = nil
	}
	if !math.IsNaN(tempC) {
		t.temps = append(t.temps, tempC)
	}
	if !math.IsNaN(rhPct) {
		t.rhs = append(t.rhs, rhPct)
	}
	if !math.IsNaN(gustKmh) {
		t.gusts = append(t.gusts, gustKmh)
	}
}

// Extremes reduces the collected samples. Each field is NaN when its
// collection is empty.
func (t *Tracker) Extremes() models.DailyExtremes {
	ex := models.DailyExtremes{
		TempMax: math.NaN(), TempMin: math.NaN(),
		RHMax: math.NaN(), RHMin: math.NaN(),
		GustMax: math.NaN(),
	}
	if len(t.temps) > 0 {
		ex.TempMax, ex.TempMin = maxMin(t.temps)
	}
	if len(t.rhs) > 0 {
		ex.RHMax, ex.RHMin = maxMin(t.rhs)
	}
	if len(t.gusts) > 0 {
		ex.GustMax, _ = maxMin(t.gusts)
	}
	return ex
}

// Reset clears the tracked date and all collections.
func (t *Tracker) Reset() {
	t.date = time.Time{}
	t.temps = nil
	t.rhs = nil
	t.gusts = nil
}

func dateOf(epoch int64, loc *time.Location) time.Time {
	y, m, d := time.Unix(epoch, 0).In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func maxMin(vals []float64) (max, min float64) {
	max, min = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return max, min
}
