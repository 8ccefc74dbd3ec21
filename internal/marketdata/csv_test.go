package marketdata

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLoadWideCSV(t *testing.T) {
	in := `Date,NSE_INFY,NSE_TCS,EMPTY
2024-01-03,1510.5,3700,
2024-01-01,1500,,
not-a-date,1,2,
2024-01-02,,3690,
2024-01-04,,,
`
	tbl, err := LoadWideCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"NSE_INFY", "NSE_TCS", "EMPTY"}, tbl.Symbols)
	assert.Equal(t, []time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3)}, tbl.Dates)

	// forward fill, then backward fill for the leading gap
	assert.Equal(t, []float64{1500, 1500, 1510.5}, tbl.Columns["NSE_INFY"])
	assert.Equal(t, []float64{3690, 3690, 3700}, tbl.Columns["NSE_TCS"])

	for _, v := range tbl.Columns["EMPTY"] {
		assert.True(t, math.IsNaN(v))
	}
	s, ok := tbl.Series("EMPTY")
	assert.True(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestLoadWideCSV_DateLayouts(t *testing.T) {
	in := "\ufeffDate,A\n15-03-2024,1\n2024/03/16,2\n2024-03-17 09:15:00,3\n03/18/2024,4\n"
	tbl, err := LoadWideCSV(strings.NewReader(in))
	require.NoError(t, err)

	require.Len(t, tbl.Dates, 4)
	assert.Equal(t, day(2024, 3, 15), tbl.Dates[0])
	assert.Equal(t, day(2024, 3, 18), tbl.Dates[3])
	assert.Equal(t, []float64{1, 2, 3, 4}, tbl.Columns["A"])
}

func TestLoadWideCSV_Errors(t *testing.T) {
	_, err := LoadWideCSV(strings.NewReader("Symbol,A\n2024-01-01,1\n"))
	assert.ErrorIs(t, err, ErrNoDateColumn)

	_, err = LoadWideCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoDateColumn)
}

func TestLoadWideCSV_ShortRowsAndThousands(t *testing.T) {
	in := "Date,A,B\n2024-01-01,\"1,250.5\"\n2024-01-02,1260,7\n"
	tbl, err := LoadWideCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []float64{1250.5, 1260}, tbl.Columns["A"])
	assert.Equal(t, []float64{7, 7}, tbl.Columns["B"])
}

func TestParseDate(t *testing.T) {
	_, ok := ParseDate("yesterday")
	assert.False(t, ok)

	d, ok := ParseDate(" 2024-02-29 ")
	require.True(t, ok)
	assert.Equal(t, day(2024, 2, 29), d)
}
