package main

import (
	"os"

	"github.com/Keshavmittal8178/data-science-in-financial-market/cmd/dsfm/commands"
)

// main is the entry point for the DSFM CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/dsfm [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
