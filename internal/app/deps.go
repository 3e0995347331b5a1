// Where: cli/internal/app/deps.go
// What: Injected dependencies for CLI command execution.
// Why: Enable swapping workflow implementations in tests.
package app

import (
	"context"
	"io"

	"github.com/poruru/mobile-signing-box/cli/internal/workflows"
)

// PrepareRunner is the workflow surface the prepare command drives.
type PrepareRunner interface {
	Run(ctx context.Context, req workflows.PrepareRequest) (workflows.PrepareResult, error)
}

// PrepareDeps holds the prepare command collaborators. The workflow is
// built through a factory so endpoint configuration picked up from the
// environment file is honored.
type PrepareDeps struct {
	WorkflowFactory func(out io.Writer) (PrepareRunner, error)
}

// Dependencies holds all injected dependencies required for CLI
// command execution.
type Dependencies struct {
	ProjectDir string
	Out        io.Writer
	Prepare    PrepareDeps
}
