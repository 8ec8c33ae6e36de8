package thermo

// Physical constants shared by the formula set.
const (
	G0 = 9.80665 // standard gravity, m/s2
	Rd = 287.05  // specific gas constant of dry air, J/(kg K)
	Rv = 461.5   // specific gas constant of water vapor, J/(kg K)

	Epsilon = 0.622  // Rd/Rv
	Kappa   = 0.286  // Rd/cp, dry adiabatic exponent
	TvCoef  = 0.61   // virtual temperature moisture coefficient
	Cp      = 1004.0 // specific heat of dry air at constant pressure, J/(kg K)
	Lv      = 2.5e6  // latent heat of vaporization, J/kg

	LCLFactor = 125.0  // LCL height per degree of dew point depression, m/degC
	P0        = 1000.0 // reference pressure for potential temperature, hPa

	kelvinOffset = 273.15
)
