package portfolio

import "time"

// simulatedMarkup is the quote source of the analyze endpoint's demo mode:
// every lot is priced at 1.1x its buy price instead of consulting the live
// feed. The dashboard path always uses live quotes; the two paths diverge on
// purpose and this constant names that mode.
const simulatedMarkup = 1.1

// LotInput is one holding row of the analyze request body. Numeric fields
// follow the lenient policy (see FlexFloat).
type LotInput struct {
	Ticker   string    `json:"ticker"`
	Shares   FlexFloat `json:"shares"`
	BuyPrice FlexFloat `json:"buy_price"`
	BuyDate  string    `json:"buy_date,omitempty"`
}

// AnalyzeResult is the analyze endpoint response body.
type AnalyzeResult struct {
	LatestValue  float64   `json:"latest_value"`
	InitialValue float64   `json:"initial_value"`
	Growth       float64   `json:"growth"`
	Holdings     []Holding `json:"holdings"`
}

// Lots converts the request rows into lots.
func Lots(inputs []LotInput) []Lot {
	lots := make([]Lot, 0, len(inputs))
	for _, in := range inputs {
		lot := Lot{
			Ticker:   in.Ticker,
			Shares:   float64(in.Shares),
			BuyPrice: float64(in.BuyPrice),
		}
		if d, err := time.ParseInLocation("2006-01-02", in.BuyDate, time.UTC); err == nil {
			lot.BuyDate = d
		}
		lots = append(lots, lot)
	}
	return lots
}

// AnalyzeSimulated summarizes the submitted lots under the simulated-quote
// mode. Growth is 0 (not an error) when no capital has been contributed.
func AnalyzeSimulated(inputs []LotInput) AnalyzeResult {
	lots := Lots(inputs)

	var res AnalyzeResult
	var totalInitial, totalCurrent float64
	for _, lot := range lots {
		current := lot.BuyPrice * simulatedMarkup
		totalInitial += lot.CostBasis()
		totalCurrent += lot.Shares * current

		change := 0.0
		if lot.BuyPrice > 0 {
			change = 100 * (current - lot.BuyPrice) / lot.BuyPrice
		}
		res.Holdings = append(res.Holdings, Holding{
			Ticker:        lot.Ticker,
			Shares:        int(lot.Shares),
			BuyPrice:      round2(lot.BuyPrice),
			CurrentPrice:  round2(current),
			ChangePercent: round2(change),
		})
	}

	res.LatestValue = round2(totalCurrent)
	res.InitialValue = round2(totalInitial)
	if totalInitial > 0 {
		res.Growth = round2(100 * (totalCurrent - totalInitial) / totalInitial)
	}
	return res
}
