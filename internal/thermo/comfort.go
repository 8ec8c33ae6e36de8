package thermo

import "math"

// ApparentTemperature returns Steadman's (1984) apparent temperature in degC
// from air temperature, vapor pressure in hPa and wind speed in m/s. Missing
// wind is treated as calm.
func ApparentTemperature(tempC, eHPa, windMS float64) float64 {
	if isNaN(tempC) || isNaN(eHPa) {
		return math.NaN()
	}
	if isNaN(windMS) {
		windMS = 0
	}
	return tempC + 0.33*eHPa - 0.70*windMS - 4.00
}

// HeatIndex returns the Rothfusz (NWS) heat index regression in degC.
func HeatIndex(tempC, rhPct float64) float64 {
	if isNaN(tempC) || isNaN(rhPct) {
		return math.NaN()
	}
	t := tempC
	rh := rhPct
	return -8.78469475556 +
		1.61139411*t +
		2.33854883889*rh -
		0.14611605*t*rh -
		0.012308094*t*t -
		0.0164248277778*rh*rh +
		0.002211732*t*t*rh +
		0.00072546*t*rh*rh -
		0.000003582*t*t*rh*rh
}
