package portfolio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// The input boundary applies a lenient numeric policy: malformed or missing
// numeric fields coerce to zero instead of rejecting the row. Downstream math
// guards every zero denominator, so a zeroed field degrades to "no value"
// rather than an error.

// CoerceNumber is the lenient numeric policy for text inputs.
func CoerceNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// FlexFloat applies the lenient numeric policy to JSON fields: numbers parse
// normally, anything else (strings, null, objects) coerces to zero.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*f = FlexFloat(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexFloat(CoerceNumber(s))
		return nil
	}
	*f = 0
	return nil
}

// LoadHoldingsCSV reads lot records from a CSV file with columns
// ticker, shares, buy_price, date. Numeric fields follow the lenient policy;
// an unparseable date leaves the lot active from the start of the series.
func LoadHoldingsCSV(path string) ([]Lot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open holdings file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read holdings csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("holdings file %s is empty", path)
	}

	col := map[string]int{}
	for i, name := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	tickerIdx, ok := col["ticker"]
	if !ok {
		return nil, fmt.Errorf("holdings csv missing ticker column")
	}

	var lots []Lot
	for _, row := range rows[1:] {
		ticker := strings.ToUpper(strings.TrimSpace(field(row, tickerIdx)))
		if ticker == "" {
			continue
		}
		lot := Lot{Ticker: ticker}
		if i, ok := col["shares"]; ok {
			lot.Shares = CoerceNumber(field(row, i))
		}
		if i, ok := col["buy_price"]; ok {
			lot.BuyPrice = CoerceNumber(field(row, i))
		}
		if i, ok := col["date"]; ok {
			if d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(field(row, i)), time.UTC); err == nil {
				lot.BuyDate = d
			}
		}
		lots = append(lots, lot)
	}
	return lots, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
