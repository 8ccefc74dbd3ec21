package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "사용 가능한 종목 목록",
	Long: `가격 데이터에서 값이 하나 이상 있는 종목을 출력합니다.

Example:
  go run ./cmd/dsfm symbols
  go run ./cmd/dsfm symbols --data ./data/market_data.csv`,
	RunE: runSymbols,
}

var symbolsJSON bool

func init() {
	rootCmd.AddCommand(symbolsCmd)
	symbolsCmd.Flags().BoolVar(&symbolsJSON, "json", false, "JSON 출력")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, 0)
	if err != nil {
		return err
	}
	defer a.close()

	syms, err := a.analytics.AvailableSymbols(ctx)
	if err != nil {
		return err
	}
	if symbolsJSON {
		return printJSON(syms)
	}

	widths := []int{28, 16}
	PrintTableHeader([]string{"Symbol", "Display"}, widths)
	for _, s := range syms {
		PrintTableRow([]string{s.Value, s.Display}, widths)
	}
	fmt.Println()
	PrintInfo(fmt.Sprintf("%d symbols", len(syms)))
	return nil
}
