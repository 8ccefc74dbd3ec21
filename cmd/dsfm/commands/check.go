package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/config"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "설정 / 데이터 소스 / Redis 연결 점검",
	Long: `서버를 띄우기 전에 의존성을 점검합니다.

이 명령어는:
- 환경변수와 모델 YAML 로드
- 가격 테이블 로드 (CSV 또는 PostgreSQL)
- PostgreSQL Health Check 및 Pool 통계 (DATA_SOURCE=postgres)
- Redis Ping (REDIS_ENABLED=true)

Example:
  go run ./cmd/dsfm check
  go run ./cmd/dsfm check --data ./data/market_data.csv`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	PrintHeader("DSFM Dependency Check")

	a, err := newApp(cmd.Context(), 0)
	if err != nil {
		PrintError(err.Error())
		return err
	}
	defer a.close()
	PrintSuccess(fmt.Sprintf("Config loaded (ENV: %s, DATA_SOURCE: %s)", a.cfg.Env, a.cfg.DataSource))
	PrintKeyValue("Search", a.models.SearchStrategy, 14)
	PrintKeyValue("Symbols map", fmt.Sprintf("%d entries", len(a.models.Symbols)), 14)

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	table, err := a.prices.Table(ctx)
	if err != nil {
		PrintError("Price table: " + err.Error())
		return err
	}
	if table.Len() == 0 {
		PrintWarning("Price table is empty")
	} else {
		PrintSuccess(fmt.Sprintf("Price table: %d rows × %d symbols (%s → %s)",
			table.Len(), len(table.Symbols),
			table.Dates[0].Format(contracts.DateLayout),
			table.Dates[table.Len()-1].Format(contracts.DateLayout)))
	}

	if a.cfg.DataSource == config.DataSourcePostgres && a.db != nil {
		status, err := a.db.HealthCheck(ctx)
		if err != nil {
			PrintError("PostgreSQL: " + err.Error())
			return err
		}
		PrintSuccess(fmt.Sprintf("PostgreSQL healthy (%v)", status.ResponseTime))
		PrintKeyValue("Max Connections", fmt.Sprint(status.Stats.MaxConns), 18)
		PrintKeyValue("Total Connections", fmt.Sprint(status.Stats.TotalConns), 18)
		PrintKeyValue("Idle Connections", fmt.Sprint(status.Stats.IdleConns), 18)
	}

	if a.redis.Enabled() {
		if err := a.redis.Redis().Ping(ctx).Err(); err != nil {
			PrintWarning("Redis ping failed: " + err.Error())
		} else {
			PrintSuccess("Redis ping successful")
		}
	} else {
		PrintInfo("Redis disabled (sentiment cache off, local news rate limit)")
	}

	if a.cfg.News.APIKey == "" {
		PrintWarning("NEWSCATCHER_API_KEY not set: sentiment falls back to NEUTRAL")
	}

	fmt.Println()
	PrintSuccess("All checks passed")
	return nil
}
