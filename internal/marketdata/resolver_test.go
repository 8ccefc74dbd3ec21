package marketdata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
)

func TestResolve(t *testing.T) {
	columns := []string{"Date", "CDUR_ASIANPAINT", "NSE_INFY", "BANK-HDFC", "tcs"}

	tests := []struct {
		name   string
		symbol string
		want   string
		found  bool
	}{
		{"exact", "NSE_INFY", "NSE_INFY", true},
		{"case insensitive", "TCS", "tcs", true},
		{"containment", "asianpaint", "CDUR_ASIANPAINT", true},
		{"separators ignored", "NSE-INFY", "NSE_INFY", true},
		{"hyphen suffix", "HDFC", "BANK-HDFC", true},
		{"unknown", "RELIANCE", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.symbol, columns)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "ASIANPAINT", DisplayName("CDUR_ASIANPAINT"))
	assert.Equal(t, "HDFC", DisplayName("BANK-HDFC"))
	assert.Equal(t, "EQ", DisplayName("NSE_M-M-EQ"))
	assert.Equal(t, "PLAIN", DisplayName("PLAIN"))
}

type tableProvider struct {
	table *contracts.PriceTable
	err   error
}

func (p tableProvider) Series(ctx context.Context, symbol string) (contracts.PriceSeries, error) {
	return contracts.PriceSeries{}, errors.New("unused")
}

func (p tableProvider) Table(ctx context.Context) (*contracts.PriceTable, error) {
	return p.table, p.err
}

func TestResolveSymbol(t *testing.T) {
	p := tableProvider{table: &contracts.PriceTable{Symbols: []string{"NSE_INFY"}}}

	got, err := ResolveSymbol(context.Background(), p, "infy")
	require.NoError(t, err)
	assert.Equal(t, "NSE_INFY", got)

	_, err = ResolveSymbol(context.Background(), p, "TCS")
	assert.ErrorIs(t, err, contracts.ErrSymbolNotFound)

	_, err = ResolveSymbol(context.Background(), tableProvider{err: contracts.ErrUpstreamUnavailable}, "X")
	assert.ErrorIs(t, err, contracts.ErrUpstreamUnavailable)
}
