package credit

import "math"

// PeriodsPerYear returns the compounding periods per year of a capitalization.
// Unrecognized values compound monthly.
func PeriodsPerYear(c Capitalization) int {
	switch c {
	case CapitalizationMonthly:
		return 12
	case CapitalizationBimonthly:
		return 6
	case CapitalizationQuarterly:
		return 4
	case CapitalizationSemiannual:
		return 2
	case CapitalizationAnnual:
		return 1
	default:
		return 12
	}
}

// NominalToEffectiveAnnual converts a nominal annual rate compounded m times a
// year into its effective annual rate: (1 + j/m)^m - 1.
func NominalToEffectiveAnnual(nominalRate float64, c Capitalization) float64 {
	m := float64(PeriodsPerYear(c))
	return math.Pow(1+nominalRate/m, m) - 1
}

// EffectiveAnnualToMonthly converts an effective annual rate into the
// equivalent effective monthly rate: (1 + i)^(1/12) - 1.
func EffectiveAnnualToMonthly(effectiveAnnualRate float64) float64 {
	return math.Pow(1+effectiveAnnualRate, 1.0/MonthsPerYear) - 1
}

// ResolveMonthlyRate normalizes a quoted annual rate into an effective
// monthly rate.
func ResolveMonthlyRate(annualRate float64, rateType InterestRateType, c Capitalization) float64 {
	return EffectiveAnnualToMonthly(resolveEffectiveAnnual(annualRate, rateType, c))
}

// resolveEffectiveAnnual is the single place where a quoted rate becomes an
// effective annual rate. A nominal rate without capitalization is taken as
// already effective; callers that care detect it with nominalWithoutCapitalization.
func resolveEffectiveAnnual(annualRate float64, rateType InterestRateType, c Capitalization) float64 {
	if rateType == RateTypeNominal && c != "" {
		return NominalToEffectiveAnnual(annualRate, c)
	}
	return annualRate
}

func nominalWithoutCapitalization(rateType InterestRateType, c Capitalization) bool {
	return rateType == RateTypeNominal && c == ""
}
