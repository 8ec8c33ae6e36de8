// Package pressure computes a 3-hour pressure tendency, preferring a remote
// two-point reference and falling back to a locally accumulated history.
package pressure

import "math"

// historyCap holds about six hours of samples at a 30 s cadence.
const historyCap = 720

type sample struct {
	epoch int64
	hPa   float64
}

// History is a session-scoped, time-ordered pressure series. Inserts must
// carry a strictly greater epoch than the newest stored sample; older or
// duplicate epochs are dropped.
type History struct {
	samples []sample
}

func NewHistory() *History {
	return &History{}
}

// Push appends one (pressure, epoch) point. NaN pressure is ignored.
func (h *History) Push(hPa float64, epoch int64) {
	if math.IsNaN(hPa) {
		return
	}
	if n := len(h.samples); n > 0 && epoch <= h.samples[n-1].epoch {
		return
	}
	if len(h.samples) == historyCap {
		h.samples = h.samples[1:]
	}
	h.samples = append(h.samples, sample{epoch: epoch, hPa: hPa})
}

// Len reports the number of stored samples.
func (h *History) Len() int { return len(h.samples) }

// Reset drops all stored samples.
func (h *History) Reset() { h.samples = nil }
