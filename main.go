// =============================================================================
// OpenHoldings - Main Entry Point
// =============================================================================
//
// USAGE:
//   holdings fetch <provider> <ticker>...  - Download and normalize holdings
//   holdings parse <provider> <file>       - Normalize a saved document
//   holdings providers                     - List supported issuers
//   holdings funds [ticker]                - Inspect the iShares funds table
//   holdings version                       - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : holdings model, providers, parsers and the pipeline
//   - pkg/       : download staging
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/openholdings/cmd"
)

func main() {
	cmd.Execute()
}
