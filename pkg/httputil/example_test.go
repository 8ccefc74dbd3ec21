package httputil_test

import (
	"context"
	"fmt"
	"time"

	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/config"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/httputil"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/logger"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/redis"
)

// Example_getJSON demonstrates decoding a JSON API response
func Example_getJSON() {
	cfg := &config.Config{
		Env:      "production",
		LogLevel: "info",
	}
	log := logger.New(cfg)

	// Create HTTP client (SSOT)
	client := httputil.New(cfg, log)

	var body struct {
		Status string `json:"status"`
	}
	ctx := context.Background()
	if err := client.GetJSON(ctx, "https://newsdata.io/api/1/news?apikey=KEY&q=Infosys", &body); err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}

	fmt.Printf("Status: %s\n", body.Status)
}

// Example_withRateLimiter demonstrates a rate-limited client with custom retry
func Example_withRateLimiter() {
	cfg := &config.Config{
		Env:      "production",
		LogLevel: "info",
	}
	log := logger.New(cfg)

	limiter := redis.NewRateLimiter(redis.Disabled(), "dsfm")

	client := httputil.New(cfg, log).
		WithRetry(2, 500*time.Millisecond).
		WithRateLimiter(limiter, redis.NewsRateLimit)

	resp, err := client.Get(context.Background(), "https://newsdata.io/api/1/news")
	if err != nil {
		fmt.Printf("Request failed after retries: %v\n", err)
		return
	}
	defer resp.Body.Close()

	fmt.Println("Request succeeded")
}
