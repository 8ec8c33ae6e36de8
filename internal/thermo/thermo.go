// Package thermo derives thermodynamic quantities from temperature (degC),
// relative humidity (%) and pressure (hPa). Every function is pure and
// returns NaN when any input is NaN or outside its physical domain.
package thermo

import "math"

func isNaN(x float64) bool { return x != x }

// SaturationPressure returns saturation vapor pressure in hPa (Tetens):
// e_s(T) = 6.112 * exp(17.67*T / (T+243.5)).
func SaturationPressure(tempC float64) float64 {
	if isNaN(tempC) {
		return math.NaN()
	}
	return 6.112 * math.Exp((17.67*tempC)/(tempC+243.5))
}

// VaporPressure returns actual vapor pressure in hPa: e = (RH/100) * e_s(T).
func VaporPressure(tempC, rhPct float64) float64 {
	if isNaN(tempC) || isNaN(rhPct) {
		return math.NaN()
	}
	return (rhPct / 100.0) * SaturationPressure(tempC)
}

// DewPointFromVaporPressure inverts Tetens:
// Td = 243.5*ln(e/6.112) / (17.67 - ln(e/6.112)).
func DewPointFromVaporPressure(e float64) float64 {
	if isNaN(e) || e <= 0 {
		return math.NaN()
	}
	lnE := math.Log(e / 6.112)
	return (243.5 * lnE) / (17.67 - lnE)
}

// MixingRatio returns the dimensionless mixing ratio r = 0.622*e/(p-e).
func MixingRatio(e, pAbs float64) float64 {
	if isNaN(e) || isNaN(pAbs) || pAbs <= e {
		return math.NaN()
	}
	return Epsilon * e / (pAbs - e)
}

// SpecificHumidity returns q = r/(1+r), dimensionless (kg/kg).
func SpecificHumidity(e, pAbs float64) float64 {
	r := MixingRatio(e, pAbs)
	if isNaN(r) {
		return math.NaN()
	}
	return r / (1.0 + r)
}

// AbsoluteHumidity returns water vapor density in g/m3 from vapor pressure
// in hPa and temperature in degC.
func AbsoluteHumidity(e, tempC float64) float64 {
	if isNaN(e) || isNaN(tempC) {
		return math.NaN()
	}
	tK := tempC + kelvinOffset
	return ((e * 100) / (Rv * tK)) * 1000
}

// VirtualTemperature returns Tv in degC: Tv = T_K*(1 + 0.61*q) - 273.15.
func VirtualTemperature(tempC, q float64) float64 {
	if isNaN(tempC) || isNaN(q) {
		return math.NaN()
	}
	tK := tempC + kelvinOffset
	return tK*(1.0+TvCoef*q) - kelvinOffset
}

// PotentialTemperature returns theta in degC: theta = T_K*(1000/p)^kappa.
func PotentialTemperature(tempC, pAbs float64) float64 {
	if isNaN(tempC) || isNaN(pAbs) || pAbs <= 0 {
		return math.NaN()
	}
	tK := tempC + kelvinOffset
	return tK*math.Pow(P0/pAbs, Kappa) - kelvinOffset
}

// EquivalentTemperature returns Te in degC: Te = T_K*exp(Lv*q/(cp*T_K)).
func EquivalentTemperature(tempC, q float64) float64 {
	if isNaN(tempC) || isNaN(q) {
		return math.NaN()
	}
	tK := tempC + kelvinOffset
	return tK*math.Exp((Lv*q)/(Cp*tK)) - kelvinOffset
}

// LCLTemperature returns the lifting condensation level temperature in K
// (Bolton 1980, eq. 22): T_L = 1/[1/(T_K-55) - ln(RH/100)/2840] + 55.
func LCLTemperature(tempC, rhPct float64) float64 {
	if isNaN(tempC) || isNaN(rhPct) || rhPct <= 0 || rhPct > 100 {
		return math.NaN()
	}
	tK := tempC + kelvinOffset
	return 1.0/(1.0/(tK-55.0)-math.Log(rhPct/100.0)/2840.0) + 55.0
}

// EquivalentPotentialTemperature returns theta-e in degC using the Bolton
// approximation with the mixing ratio in g/kg:
// theta_e = theta_K * exp[(3.376/T_L - 0.00254) * r_gkg * (1 + 0.81e-3*r_gkg)].
func EquivalentPotentialTemperature(tempC, rhPct, pAbs float64) float64 {
	e := VaporPressure(tempC, rhPct)
	r := MixingRatio(e, pAbs)
	thetaC := PotentialTemperature(tempC, pAbs)
	tL := LCLTemperature(tempC, rhPct)
	if isNaN(r) || isNaN(thetaC) || isNaN(tL) {
		return math.NaN()
	}
	rg := r * 1000
	thetaK := thetaC + kelvinOffset
	thetaEK := thetaK * math.Exp((3.376/tL-0.00254)*rg*(1+0.81e-3*rg))
	return thetaEK - kelvinOffset
}

// LCLHeight estimates the lifting condensation level in meters from the dew
// point depression: z = 125*(T - Td).
func LCLHeight(tempC, dewPointC float64) float64 {
	if isNaN(tempC) || isNaN(dewPointC) {
		return math.NaN()
	}
	return LCLFactor * (tempC - dewPointC)
}

// AirDensity returns rho in kg/m3 from absolute pressure in hPa and virtual
// temperature in degC: rho = p*100/(Rd*Tv_K).
func AirDensity(pAbs, tvC float64) float64 {
	if isNaN(pAbs) || isNaN(tvC) {
		return math.NaN()
	}
	tvK := tvC + kelvinOffset
	if tvK <= 0 {
		return math.NaN()
	}
	return (pAbs * 100) / (Rd * tvK)
}

// MSLToAbsolute converts mean-sea-level pressure to station-level pressure
// via the hypsometric relation: p_abs = p_msl * exp(-g*z/(Rd*T_K)).
func MSLToAbsolute(pMSL, elevationM, tempC float64) float64 {
	if isNaN(pMSL) || isNaN(elevationM) || isNaN(tempC) {
		return math.NaN()
	}
	tK := tempC + kelvinOffset
	if tK <= 0 {
		return math.NaN()
	}
	return pMSL * math.Exp(-G0*elevationM/(Rd*tK))
}

// AbsoluteToMSL is the exact inverse of MSLToAbsolute for the same elevation
// and temperature: p_msl = p_abs * exp(g*z/(Rd*T_K)).
func AbsoluteToMSL(pAbs, elevationM, tempC float64) float64 {
	if isNaN(pAbs) || isNaN(elevationM) || isNaN(tempC) {
		return math.NaN()
	}
	tK := tempC + kelvinOffset
	if tK <= 0 {
		return math.NaN()
	}
	return pAbs * math.Exp(G0*elevationM/(Rd*tK))
}
