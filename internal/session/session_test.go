package session

import (
	"math"
	"testing"
	"time"

	"github.com/imartinez/iberoweather/internal/models"
)

const baseEpoch = int64(1752490800)

func reading(epoch int64) models.CanonicalReading {
	return models.CanonicalReading{
		ProviderID:    "aemet",
		StationID:     "3195",
		Epoch:         epoch,
		Temp:          22.0,
		Humidity:      55.0,
		PressureMSL:   1015.0,
		PressureAbs:   math.NaN(),
		WindSpeed:     14.4,
		WindGust:      28.8,
		WindDir:       270,
		PrecipTotal:   0,
		Solar:         650,
		UV:            math.NaN(),
		Latitude:      40.45,
		Longitude:     -3.72,
		Elevation:     667,
		Pressure3hAgo: math.NaN(),
		Epoch3hAgo:    math.NaN(),
	}
}

func TestEnrichDerivesThermoChain(t *testing.T) {
	s := newSession("test", time.UTC)
	out := s.Enrich(reading(baseEpoch), time.Unix(baseEpoch, 0))

	// Absolute pressure derived from MSL at 667 m: lower, not wildly so.
	if math.IsNaN(out.PressureAbs) || out.PressureAbs >= 1015 || out.PressureAbs < 900 {
		t.Errorf("derived p_abs = %v, want in (900, 1015)", out.PressureAbs)
	}
	for name, v := range map[string]float64{
		"dew point":       out.DewPoint,
		"wet bulb":        out.WetBulb,
		"potential temp":  out.PotentialTemp,
		"theta-e":         out.EquivPotential,
		"mixing ratio":    out.MixingRatioGKg,
		"air density":     out.AirDensity,
		"lcl height":      out.LCLHeight,
		"apparent temp":   out.ApparentTemp,
		"virtual temp":    out.VirtualTemp,
		"specific hum":    out.SpecificHumidity,
		"absolute hum":    out.AbsoluteHumidity,
		"equivalent temp": out.EquivalentTemp,
	} {
		if math.IsNaN(v) {
			t.Errorf("%s is NaN with complete inputs", name)
		}
	}

	// Ordering invariants: Td <= Tw <= T, Tv >= T, theta-e >= theta.
	if out.DewPoint > out.WetBulb || out.WetBulb > out.Temp+0.5 {
		t.Errorf("Td=%v Tw=%v T=%v violate ordering", out.DewPoint, out.WetBulb, out.Temp)
	}
	if out.VirtualTemp < out.Temp {
		t.Errorf("Tv=%v below T=%v", out.VirtualTemp, out.Temp)
	}
	if out.EquivPotential < out.PotentialTemp {
		t.Errorf("theta-e=%v below theta=%v", out.EquivPotential, out.PotentialTemp)
	}
}

func TestEnrichDerivesMSLFromAbsolute(t *testing.T) {
	s := newSession("test", time.UTC)
	r := reading(baseEpoch)
	r.PressureMSL = math.NaN()
	r.PressureAbs = 941.0

	out := s.Enrich(r, time.Unix(baseEpoch, 0))
	if math.IsNaN(out.PressureMSL) || out.PressureMSL <= 941.0 {
		t.Errorf("derived p_msl = %v, want above station pressure", out.PressureMSL)
	}
}

func TestEnrichMissingInputsPropagate(t *testing.T) {
	s := newSession("test", time.UTC)
	r := reading(baseEpoch)
	r.Temp = math.NaN()

	out := s.Enrich(r, time.Unix(baseEpoch, 0))
	for name, v := range map[string]float64{
		"dew point": out.DewPoint,
		"wet bulb":  out.WetBulb,
		"theta":     out.PotentialTemp,
	} {
		if !math.IsNaN(v) {
			t.Errorf("%s = %v, want NaN without temperature", name, v)
		}
	}
	// The reading itself still comes back and is retrievable.
	if s.Last() == nil {
		t.Error("Last() should return the enriched reading")
	}
}

func TestEnrichAccumulatesRainAndExtremes(t *testing.T) {
	s := newSession("test", time.UTC)

	r1 := reading(baseEpoch)
	r1.PrecipTotal = 0.4
	r1.Temp = 18
	s.Enrich(r1, time.Unix(baseEpoch, 0))

	r2 := reading(baseEpoch + 120)
	r2.PrecipTotal = 0.8
	r2.Temp = 23
	out := s.Enrich(r2, time.Unix(baseEpoch+120, 0))

	if math.Abs(out.Rain.Instant-12.0) > 1e-9 {
		t.Errorf("rain instant = %v, want 12.0", out.Rain.Instant)
	}
	if out.RainLabel != "Moderate rain" {
		t.Errorf("rain label = %q, want Moderate rain", out.RainLabel)
	}
	if out.Extremes.TempMax != 23 || out.Extremes.TempMin != 18 {
		t.Errorf("extremes = [%v, %v], want [18, 23]", out.Extremes.TempMin, out.Extremes.TempMax)
	}
}

func TestEnrichRemoteTrendPreferred(t *testing.T) {
	s := newSession("test", time.UTC)
	r := reading(baseEpoch)
	r.Pressure3hAgo = 1011.5
	r.Epoch3hAgo = float64(baseEpoch - 3*3600)

	out := s.Enrich(r, time.Unix(baseEpoch, 0))
	if math.Abs(out.Pressure.Delta-3.5) > 1e-9 {
		t.Errorf("pressure delta = %v, want 3.5", out.Pressure.Delta)
	}
	if out.Pressure.Label != "Rising fast" {
		t.Errorf("label = %q, want Rising fast", out.Pressure.Label)
	}
	if out.Pressure.Outlook == "" || out.Pressure.Outlook == "Insufficient data" {
		t.Errorf("outlook = %q, want a real outlook", out.Pressure.Outlook)
	}
}

func TestSessionReset(t *testing.T) {
	s := newSession("test", time.UTC)
	r := reading(baseEpoch)
	r.PrecipTotal = 2.0
	s.Enrich(r, time.Unix(baseEpoch, 0))

	s.Reset()
	if s.Last() != nil {
		t.Error("Last() should be nil after reset")
	}
	ex := s.Extremes()
	if !math.IsNaN(ex.TempMax) {
		t.Errorf("extremes after reset = %v, want NaN", ex.TempMax)
	}
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(time.UTC)

	a := m.Get("a")
	if a == nil || m.Len() != 1 {
		t.Fatalf("Get should create the session, len = %d", m.Len())
	}
	if m.Get("a") != a {
		t.Error("Get must return the same session for the same id")
	}
	m.Get("b")
	if m.Len() != 2 {
		t.Errorf("len = %d, want 2", m.Len())
	}

	// Reset keeps the session but clears its state.
	a.Enrich(reading(baseEpoch), time.Now())
	m.Reset("a")
	if a.Last() != nil {
		t.Error("reset session should have no last reading")
	}
	if m.Len() != 2 {
		t.Errorf("len after reset = %d, want 2", m.Len())
	}

	// Fresh sessions survive a sweep; long-idle ones are dropped.
	if n := m.Sweep(time.Now()); n != 0 {
		t.Errorf("sweep removed %d fresh sessions", n)
	}
	if n := m.Sweep(time.Now().Add(7 * time.Hour)); n != 2 {
		t.Errorf("sweep removed %d, want 2", n)
	}
	if m.Len() != 0 {
		t.Errorf("len after sweep = %d, want 0", m.Len())
	}
}
