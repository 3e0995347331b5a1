// Where: cli/internal/app/error_helpers.go
// What: Shared CLI error output.
// Why: Keep error rendering consistent across commands.
package app

import (
	"fmt"
	"io"

	"github.com/poruru/mobile-signing-box/cli/internal/ui"
)

// exitWithError prints an error message to the output writer and
// returns exit code 1 for CLI error handling.
func exitWithError(out io.Writer, err error) int {
	ui.New(out).Warn(fmt.Sprintf("✗ %v", err))
	return 1
}
