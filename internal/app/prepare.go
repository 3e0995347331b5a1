// Where: cli/internal/app/prepare.go
// What: Prepare command handler.
// Why: Translate CLI flags into a workflow run and map errors to exit codes.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/poruru/mobile-signing-box/cli/internal/credentials"
	"github.com/poruru/mobile-signing-box/cli/internal/workflows"
)

// Exit code for the in-progress precondition, distinct from generic
// failures so callers can tell "try again later" from "broken".
const exitCodeInProgress = 3

func runPrepare(cli CLI, deps Dependencies, out io.Writer) int {
	if deps.Prepare.WorkflowFactory == nil {
		return exitWithError(out, fmt.Errorf("prepare workflow is not configured"))
	}
	workflow, err := deps.Prepare.WorkflowFactory(out)
	if err != nil {
		return exitWithError(out, err)
	}

	req := workflows.PrepareRequest{
		PublicURL:   cli.Prepare.PublicURL,
		Credentials: credentials.Options{
			ClearAll:                 cli.Prepare.ClearCredentials,
			ClearDistCert:            cli.Prepare.ClearDistCert,
			ClearPushKey:             cli.Prepare.ClearPushKey,
			ClearPushCert:            cli.Prepare.ClearPushCert,
			ClearProvisioningProfile: cli.Prepare.ClearProvisioningProfile,
			RevokeCleared:            cli.Prepare.RevokeCredentials,
		},
	}

	result, err := workflow.Run(context.Background(), req)
	if err != nil {
		var inProgress *workflows.InProgressError
		if errors.As(err, &inProgress) {
			exitWithError(out, err)
			return exitCodeInProgress
		}
		return exitWithError(out, err)
	}

	fmt.Fprintf(out, "Scheduled build %s for @%s/%s\n",
		result.Build.BuildID, result.Identity.Account, result.Identity.AppSlug)
	return 0
}
