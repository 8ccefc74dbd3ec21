package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var decideCmd = &cobra.Command{
	Use:   "decide",
	Short: "매매 신호 (예측 방향 × 뉴스 감성)",
	Long: `예측 방향과 뉴스 감성을 결합해 BUY / WAIT / AVOID / HOLD 를 출력합니다.

  UP   + POSITIVE → BUY      DOWN + NEGATIVE → AVOID
  UP   + NEGATIVE → WAIT     그 외            → HOLD

Example:
  go run ./cmd/dsfm decide --symbol NSE_INFY`,
	RunE: runDecide,
}

var (
	decideSymbol string
	decideJSON   bool
)

func init() {
	rootCmd.AddCommand(decideCmd)

	decideCmd.Flags().StringVar(&decideSymbol, "symbol", "", "종목 (컬럼 이름)")
	decideCmd.Flags().BoolVar(&decideJSON, "json", false, "JSON 출력")
	_ = decideCmd.MarkFlagRequired("symbol")
}

func runDecide(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, 0)
	if err != nil {
		return err
	}
	defer a.close()

	d, err := a.decider.Decide(ctx, decideSymbol)
	if err != nil {
		return err
	}
	if decideJSON {
		return printJSON(d)
	}

	PrintHeader("Decision: " + d.Symbol)
	PrintKeyValue("Signal", string(d.Signal), 10)
	PrintKeyValue("Direction", string(d.Direction), 10)
	PrintKeyValue("Sentiment", fmt.Sprintf("%s (%.3f)", d.SentimentLabel, d.SentimentScore), 10)
	PrintKeyValue("History", fmt.Sprintf("%d prices", len(d.History)), 10)

	if len(d.News) > 0 {
		fmt.Println()
		items := make([]string, 0, len(d.News))
		for _, n := range d.News {
			items = append(items, fmt.Sprintf("[%+.2f] %s", n.Polarity, n.Title))
		}
		PrintList(items)
	}
	return nil
}
