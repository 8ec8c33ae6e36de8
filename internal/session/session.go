// Package session owns the per-session mutable state behind the derived
// metrics: rain history, pressure history and daily extremes. Sessions are
// created lazily, never shared, and explicitly clearable.
package session

import (
	"math"
	"sync"
	"time"

	"github.com/imartinez/iberoweather/internal/extremes"
	"github.com/imartinez/iberoweather/internal/models"
	"github.com/imartinez/iberoweather/internal/normalize"
	"github.com/imartinez/iberoweather/internal/pressure"
	"github.com/imartinez/iberoweather/internal/rain"
	"github.com/imartinez/iberoweather/internal/thermo"
)

// Session bundles one caller's estimator state. All operations run under the
// session's own lock; nothing is shared between sessions.
type Session struct {
	ID string

	mu       sync.Mutex
	rain     *rain.Estimator
	pressure *pressure.History
	extremes *extremes.Tracker

	last     *models.EnrichedReading
	lastSeen time.Time
}

func newSession(id string, loc *time.Location) *Session {
	return &Session{
		ID:       id,
		rain:     rain.NewEstimator(),
		pressure: pressure.NewHistory(),
		extremes: extremes.NewTracker(loc),
	}
}

// Enrich derives the full metric set from one canonical reading and folds it
// into the session state. wallClock is the host's now, kept separate from
// the reading's data epoch so replays stay deterministic.
func (s *Session) Enrich(r models.CanonicalReading, wallClock time.Time) models.EnrichedReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = wallClock

	out := models.EnrichedReading{CanonicalReading: r}

	// Resolve the two pressure references from each other when only one is
	// reported and elevation is known. The conversions are exact inverses.
	elev := r.Elevation
	if math.IsNaN(elev) {
		elev = 0
	}
	if math.IsNaN(out.PressureAbs) && !math.IsNaN(out.PressureMSL) {
		out.PressureAbs = thermo.MSLToAbsolute(out.PressureMSL, elev, r.Temp)
	}
	if math.IsNaN(out.PressureMSL) && !math.IsNaN(out.PressureAbs) {
		out.PressureMSL = thermo.AbsoluteToMSL(out.PressureAbs, elev, r.Temp)
	}

	pAbs := out.PressureAbs

	out.SaturationVP = thermo.SaturationPressure(r.Temp)
	out.VaporPressure = thermo.VaporPressure(r.Temp, r.Humidity)
	out.DewPoint = thermo.DewPointFromVaporPressure(out.VaporPressure)

	q := thermo.SpecificHumidity(out.VaporPressure, pAbs)
	if mr := thermo.MixingRatio(out.VaporPressure, pAbs); !math.IsNaN(mr) {
		out.MixingRatioGKg = mr * 1000
	} else {
		out.MixingRatioGKg = math.NaN()
	}
	out.SpecificHumidity = q
	out.AbsoluteHumidity = thermo.AbsoluteHumidity(out.VaporPressure, r.Temp)
	out.PotentialTemp = thermo.PotentialTemperature(r.Temp, pAbs)
	out.VirtualTemp = thermo.VirtualTemperature(r.Temp, q)
	out.EquivalentTemp = thermo.EquivalentTemperature(r.Temp, q)
	out.EquivPotential = thermo.EquivalentPotentialTemperature(r.Temp, r.Humidity, pAbs)
	out.WetBulb = thermo.WetBulb(r.Temp, r.Humidity, pAbs)
	out.AirDensity = thermo.AirDensity(pAbs, out.VirtualTemp)
	out.LCLHeight = thermo.LCLHeight(r.Temp, out.DewPoint)
	out.ApparentTemp = thermo.ApparentTemperature(r.Temp, out.VaporPressure, r.WindSpeed/3.6)
	out.HeatIndex = thermo.HeatIndex(r.Temp, r.Humidity)

	rates := s.rain.Update(r.PrecipTotal, r.Epoch, wallClock)
	out.Rain = models.RainRates{
		Instant:  rates.Instant,
		Rate1Min: rates.Rate1Min,
		Rate5Min: rates.Rate5Min,
	}
	out.RainLabel = rain.IntensityLabel(rates.Instant)

	s.pressure.Push(pAbs, r.Epoch)
	tr := pressure.Compute(pressure.TwoPoint{
		PNow:       out.PressureMSL,
		EpochNow:   float64(r.Epoch),
		P3hAgo:     r.Pressure3hAgo,
		Epoch3hAgo: r.Epoch3hAgo,
	}, s.pressure)
	out.Pressure = models.PressureTrend{
		Delta:       tr.Delta,
		RatePerHour: tr.RatePerHour,
		Label:       tr.Label,
		Arrow:       tr.Arrow,
		Outlook:     pressure.Outlook(tr.Delta),
	}

	s.extremes.Update(r.Temp, r.Humidity, r.WindGust, r.Epoch)
	out.Extremes = s.extremes.Extremes()

	out.QualityFlags = normalize.QualityFlags(r)

	s.last = &out
	return out
}

// Last returns the most recent enriched reading, or nil before the first
// Enrich call.
func (s *Session) Last() *models.EnrichedReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Extremes returns the current daily extremes snapshot.
func (s *Session) Extremes() models.DailyExtremes {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extremes.Extremes()
}

// Reset clears all estimator state, as on disconnect.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rain.Reset()
	s.pressure.Reset()
	s.extremes.Reset()
	s.last = nil
}
