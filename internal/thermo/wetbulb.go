package thermo

import "math"

// WetBulbStull returns the wet-bulb temperature in degC using the Stull
// (2011) empirical fit. Valid for RH in [0,100]; NaN outside that domain.
func WetBulbStull(tempC, rhPct float64) float64 {
	if isNaN(tempC) || isNaN(rhPct) || rhPct < 0 || rhPct > 100 {
		return math.NaN()
	}
	return tempC*math.Atan(0.151977*math.Sqrt(rhPct+8.313659)) +
		math.Atan(tempC+rhPct) -
		math.Atan(rhPct-1.676331) +
		0.00391838*math.Pow(rhPct, 1.5)*math.Atan(0.023101*rhPct) -
		4.686035
}

// WetBulbPsychrometric solves the psychrometric equation
// e = e_s(Tw) - gamma*(T - Tw) with gamma = cp*p/(eps*Lv) by Newton-Raphson,
// seeded by Stull and clamped to the physical range [Td, T]. Falls back to
// the Stull fit when pressure is unavailable or the seed is invalid.
func WetBulbPsychrometric(tempC, rhPct, pAbs float64) float64 {
	if isNaN(pAbs) || pAbs <= 0 {
		return WetBulbStull(tempC, rhPct)
	}
	gamma := Cp * pAbs / (Epsilon * Lv) // hPa/degC

	eActual := VaporPressure(tempC, rhPct)
	if isNaN(eActual) {
		return WetBulbStull(tempC, rhPct)
	}

	tw := WetBulbStull(tempC, rhPct)
	if isNaN(tw) {
		return math.NaN()
	}

	for i := 0; i < 50; i++ {
		esTw := SaturationPressure(tw)
		f := esTw - gamma*(tempC-tw) - eActual
		// d(e_s)/dTw from Tetens, plus the psychrometric slope.
		fp := esTw*17.67*243.5/((tw+243.5)*(tw+243.5)) + gamma
		if math.Abs(fp) < 1e-12 {
			break
		}
		delta := f / fp
		tw -= delta
		if math.Abs(delta) < 1e-6 {
			break
		}
	}

	if td := DewPointFromVaporPressure(eActual); !isNaN(td) {
		tw = math.Max(tw, td)
	}
	return math.Min(tw, tempC)
}

// WetBulb picks the psychrometric solution when absolute pressure is known
// and the Stull fit otherwise.
func WetBulb(tempC, rhPct, pAbs float64) float64 {
	if !isNaN(pAbs) {
		return WetBulbPsychrometric(tempC, rhPct, pAbs)
	}
	return WetBulbStull(tempC, rhPct)
}
