package commands

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
)

func TestRootCmd_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"api", "forecast", "decide", "symbols", "check"} {
		assert.True(t, names[want], "missing command %s", want)
	}

	garch, _, err := rootCmd.Find([]string{"forecast", "garch"})
	require.NoError(t, err)
	assert.Equal(t, "garch", garch.Name())
}

func TestRequiredSymbolFlags(t *testing.T) {
	for _, c := range []struct {
		name string
		args []string
	}{
		{"forecast", []string{"forecast"}},
		{"garch", []string{"forecast", "garch"}},
		{"decide", []string{"decide"}},
	} {
		t.Run(c.name, func(t *testing.T) {
			cmd, _, err := rootCmd.Find(c.args)
			require.NoError(t, err)
			f := cmd.Flags().Lookup("symbol")
			require.NotNil(t, f)
			assert.Equal(t, []string{"true"}, f.Annotations[cobra.BashCompOneRequiredFlag])
		})
	}
}

func TestCell(t *testing.T) {
	path := []contracts.ForecastPoint{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Price: 101.456},
	}
	assert.Equal(t, "101.46", cell(path, 0))
	assert.Equal(t, "-", cell(path, 1))
	assert.Equal(t, "-", cell(nil, 0))
}

func TestOrDash(t *testing.T) {
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "ARIMA(1,0,1)", orDash("ARIMA(1,0,1)"))
}
