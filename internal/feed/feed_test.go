package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceTableSetAndGet(t *testing.T) {
	table := NewPriceTable()
	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 2, 1, 15, 30, 0, 0, time.UTC) // intraday time normalizes to the day

	table.SetClose("AAA", d1, 120)
	table.SetClose("AAA", d2, 100)

	require.Len(t, table.Dates, 2)
	assert.True(t, table.Dates[0].Before(table.Dates[1]), "calendar stays sorted")

	v, ok := table.Close("AAA", d2)
	require.True(t, ok)
	assert.Equal(t, 100.0, v)

	_, ok = table.Close("AAA", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok, "a missing price is no value, not zero")

	_, ok = table.Close("BBB", d1)
	assert.False(t, ok)
	assert.False(t, table.HasTicker("BBB"))
}

func TestPriceTableExtendCalendarIdempotent(t *testing.T) {
	table := NewPriceTable()
	d := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	table.ExtendCalendar(d)
	table.ExtendCalendar(d.Add(6 * time.Hour)) // same calendar day

	assert.Len(t, table.Dates, 1)
}

func TestDayKey(t *testing.T) {
	assert.Equal(t, "2024-03-01", DayKey(time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)))
}
