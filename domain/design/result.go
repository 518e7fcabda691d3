package design

// ResultVector maps result names to values. The key set depends on the
// branch that executed:
//
//	anova:         sigma, power_NC, power_GS
//	ancova_single: sigma, rho, power_NC, power_GS
//	ancova_multi:  sigma, R2, power_NC, power_GS
type ResultVector map[string]float64

// Canonical result keys
const (
	KeySigma   = "sigma"
	KeyRho     = "rho"
	KeyR2      = "R2"
	KeyPowerNC = "power_NC"
	KeyPowerGS = "power_GS"
)

// Has reports whether the result contains the named entry
func (v ResultVector) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// Clone returns an independent copy of the result vector
func (v ResultVector) Clone() ResultVector {
	out := make(ResultVector, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
