// =============================================================================
// t4bulk - Main Entry Point
// =============================================================================
//
// USAGE:
//   t4bulk install    - Create or update content items from a workbook
//   t4bulk template   - Export an empty import workbook for a content type
//   t4bulk login      - Store a CMS access token
//   t4bulk version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Core logic (CMS client, element encoders, installer)
//   - pkg/       : Shared utilities (batching, file helpers)
//
// =============================================================================

package main

import (
	"github.com/cmsbulk/t4bulk/cmd"
)

func main() {
	cmd.Execute()
}
