package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/marketdata"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "종목 가격 예측 (trend / seasonal / volatility)",
	Long: `로그 수익률에 3개 모델을 적합하고 가격 경로를 예측합니다.

- trend:      ARIMA, 자동 차수 탐색
- seasonal:   계절 ARIMA (period 12)
- volatility: GARCH(1,1) 시뮬레이션 경로 (기대 경로 아님, --seed로 재현)

Example:
  go run ./cmd/dsfm forecast --symbol NSE_INFY
  go run ./cmd/dsfm forecast --symbol NSE_INFY --steps 60 --seed 42 --json
  go run ./cmd/dsfm forecast garch --symbol infy`,
	RunE: runForecast,
}

var forecastGarchCmd = &cobra.Command{
	Use:   "garch",
	Short: "GARCH(1,1) 변동성 분석",
	Long: `가격 이력에 GARCH(1,1)을 적합하고 파라미터와 10일 변동성 예측을 출력합니다.
종목은 대소문자/접두어가 달라도 해석됩니다 (infy → NSE_INFY).

Example:
  go run ./cmd/dsfm forecast garch --symbol infy`,
	RunE: runForecastGarch,
}

var (
	forecastSymbol string
	forecastSteps  int
	forecastSeed   int64
	forecastJSON   bool
)

func init() {
	rootCmd.AddCommand(forecastCmd)
	forecastCmd.AddCommand(forecastGarchCmd)

	forecastCmd.Flags().StringVar(&forecastSymbol, "symbol", "", "종목 (컬럼 이름)")
	forecastCmd.Flags().IntVar(&forecastSteps, "steps", 0, "예측 기간 (default FORECAST_STEPS)")
	forecastCmd.Flags().Int64Var(&forecastSeed, "seed", 0, "변동성 경로 난수 시드 (0 = FORECAST_SEED)")
	forecastCmd.Flags().BoolVar(&forecastJSON, "json", false, "JSON 출력")
	_ = forecastCmd.MarkFlagRequired("symbol")

	forecastGarchCmd.Flags().StringVar(&forecastSymbol, "symbol", "", "종목")
	forecastGarchCmd.Flags().BoolVar(&forecastJSON, "json", false, "JSON 출력")
	_ = forecastGarchCmd.MarkFlagRequired("symbol")
}

func runForecast(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, forecastSeed)
	if err != nil {
		return err
	}
	defer a.close()

	bundle, err := a.engine.Forecast(ctx, forecastSymbol, forecastSteps)
	if err != nil {
		return err
	}
	if forecastJSON {
		return printJSON(bundle)
	}

	PrintHeader("Forecast: " + bundle.Symbol)
	PrintKeyValue("Last price", fmt.Sprintf("%.2f (%s)", bundle.LastPrice, bundle.LastDate.Format(contracts.DateLayout)), 12)
	PrintKeyValue("Steps", fmt.Sprint(bundle.Steps), 12)
	direction := "n/a"
	if bundle.Direction != nil {
		direction = string(*bundle.Direction)
	}
	PrintKeyValue("Direction", direction, 12)
	PrintKeyValue("Trend", orDash(bundle.TrendModel), 12)
	PrintKeyValue("Seasonal", orDash(bundle.SeasonalModel), 12)
	PrintKeyValue("Volatility", orDash(bundle.VolatilityModel), 12)
	for model, reason := range bundle.Failures {
		PrintWarning(fmt.Sprintf("%s failed: %s", model, reason))
	}
	fmt.Println()

	widths := []int{12, 12, 12, 12}
	PrintTableHeader([]string{"Date", "Trend", "Seasonal", "Volatility"}, widths)
	for i := 0; i < bundle.Steps; i++ {
		row := []string{"", cell(bundle.Trend, i), cell(bundle.Seasonal, i), cell(bundle.Volatility, i)}
		for _, path := range [][]contracts.ForecastPoint{bundle.Trend, bundle.Seasonal, bundle.Volatility} {
			if i < len(path) {
				row[0] = path[i].Date.Format(contracts.DateLayout)
				break
			}
		}
		PrintTableRow(row, widths)
	}
	return nil
}

func runForecastGarch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, 0)
	if err != nil {
		return err
	}
	defer a.close()

	symbol, err := marketdata.ResolveSymbol(ctx, a.prices, forecastSymbol)
	if err != nil {
		return err
	}
	res, err := a.engine.Analyze(ctx, symbol)
	if err != nil {
		return err
	}
	if forecastJSON {
		return printJSON(res)
	}

	PrintHeader("GARCH(1,1): " + res.Symbol)
	PrintKeyValue("omega", fmt.Sprintf("%.6f", res.Omega), 18)
	PrintKeyValue("alpha[1]", fmt.Sprintf("%.6f", res.Alpha), 18)
	PrintKeyValue("beta[1]", fmt.Sprintf("%.6f", res.Beta), 18)
	PrintKeyValue("persistence", fmt.Sprintf("%.4f", res.Persistence), 18)
	PrintKeyValue("log likelihood", fmt.Sprintf("%.2f", res.LogLikelihood), 18)
	PrintKeyValue("AIC / BIC", fmt.Sprintf("%.2f / %.2f", res.AIC, res.BIC), 18)
	PrintKeyValue("current vol", fmt.Sprintf("%.4f", res.CurrentVolatility), 18)
	PrintKeyValue("observations", fmt.Sprintf("%d prices, %d returns", res.DataPoints, res.ReturnsCount), 18)

	vols := make([]string, len(res.VolatilityForecast))
	for i, v := range res.VolatilityForecast {
		vols[i] = fmt.Sprintf("%.4f", v)
	}
	PrintKeyValue("forecast vol", strings.Join(vols, " "), 18)
	return nil
}

func cell(path []contracts.ForecastPoint, i int) string {
	if i >= len(path) {
		return "-"
	}
	return fmt.Sprintf("%.2f", path[i].Price)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
