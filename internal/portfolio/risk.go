package portfolio

// concentrationThreshold is the sector allocation percentage above which the
// concentration flag fires.
const concentrationThreshold = 40.0

// Risk flag wording shown on the dashboard.
const (
	FlagSectorConcentration = "Over 40% concentration in one sector."
	FlagNoDividendIncome    = "No dividend-generating stocks."
)

// EvaluateRisk applies the ordered rule checks over the summarizer output.
// Rules are independent, side-effect-free and each fires at most once; the
// evaluation order is fixed so the flag list is deterministic.
func EvaluateRisk(sectorAllocation map[string]float64, dividends []DividendIncome) []string {
	var flags []string

	for _, pct := range sectorAllocation {
		if pct > concentrationThreshold {
			flags = append(flags, FlagSectorConcentration)
			break
		}
	}
	if len(dividends) == 0 {
		flags = append(flags, FlagNoDividendIncome)
	}

	return flags
}
