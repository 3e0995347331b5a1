// Where: cli/internal/workflows/prepare.go
// What: Release-build preparation workflow.
// Why: Drive metadata, validation, credentials, publish, and scheduling in order.
package workflows

import (
	"context"
	"fmt"

	"github.com/poruru/mobile-signing-box/cli/internal/credentials"
	"github.com/poruru/mobile-signing-box/cli/internal/manifest"
	"github.com/poruru/mobile-signing-box/cli/internal/scheduler"
	"github.com/poruru/mobile-signing-box/cli/internal/ui"
)

// Phase names the workflow states. Each phase must complete before the
// next starts; no phase is retried automatically.
type Phase string

const (
	PhaseFetchingMetadata     Phase = "fetching metadata"
	PhaseValidating           Phase = "validating project"
	PhaseCheckingInProgress   Phase = "checking in-progress builds"
	PhasePreparingCredentials Phase = "preparing credentials"
	PhaseCheckingPublish      Phase = "checking publish state"
	PhaseScheduling           Phase = "scheduling build"
)

// PhaseError marks which phase a run failed in.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

// InProgressError aborts a run whose (platform, sdk version) already
// has a build running. The workflow does not wait or retry.
type InProgressError struct {
	Platform   string
	SDKVersion string
}

func (e *InProgressError) Error() string {
	return fmt.Sprintf("a build for %s (sdk %s) is already in progress", e.Platform, e.SDKVersion)
}

// Platform describes one build target as a value, not a subtype.
type Platform struct {
	Name            string
	CredentialKinds []credentials.Kind
}

// IOS is the only platform this box prepares today.
var IOS = Platform{
	Name:            "ios",
	CredentialKinds: credentials.AllKinds(),
}

// Ports consumed by the workflow.
type (
	MetadataFetcher interface {
		Fetch(ctx context.Context, publicURL string) (manifest.Identity, error)
	}
	StatusChecker interface {
		CheckStatus(ctx context.Context, platform, sdkVersion string) (scheduler.Status, error)
	}
	ReleaseEnsurer interface {
		EnsureRelease(ctx context.Context, identity manifest.Identity, platform string) (string, error)
	}
	BuildScheduler interface {
		Schedule(ctx context.Context, identity manifest.Identity, platform string) (scheduler.BuildResult, error)
	}
	CredentialPreparer interface {
		Prepare(ctx context.Context, scope credentials.Scope, opts credentials.Options) (credentials.Bundle, error)
	}
)

// PrepareRequest captures the inputs of one preparation run.
type PrepareRequest struct {
	PublicURL   string
	Credentials credentials.Options
}

// PrepareResult reports what the run produced.
type PrepareResult struct {
	Identity  manifest.Identity
	Bundle    credentials.Bundle
	ReleaseID string
	Build     scheduler.BuildResult
}

// PrepareWorkflow executes the preparation sequence for one platform.
type PrepareWorkflow struct {
	Platform    Platform
	Metadata    MetadataFetcher
	Status      StatusChecker
	Credentials CredentialPreparer
	Releases    ReleaseEnsurer
	Scheduler   BuildScheduler
	Console     *ui.Console
}

// Run drives the state machine to completion or the first failure.
func (w PrepareWorkflow) Run(ctx context.Context, req PrepareRequest) (PrepareResult, error) {
	result := PrepareResult{}

	identity, err := w.Metadata.Fetch(ctx, req.PublicURL)
	if err != nil {
		return result, &PhaseError{Phase: PhaseFetchingMetadata, Err: err}
	}
	result.Identity = identity
	w.Console.Header("📦", fmt.Sprintf("Preparing %s build for @%s/%s", w.Platform.Name, identity.Account, identity.AppSlug))
	w.Console.Item("Bundle ID", identity.BundleIdentifier)
	w.Console.Item("SDK version", identity.SDKVersion)

	if err := manifest.Validate(identity); err != nil {
		return result, &PhaseError{Phase: PhaseValidating, Err: err}
	}

	status, err := w.Status.CheckStatus(ctx, w.Platform.Name, identity.SDKVersion)
	if err != nil {
		return result, &PhaseError{Phase: PhaseCheckingInProgress, Err: err}
	}
	if status.InProgress {
		inProgress := &InProgressError{Platform: w.Platform.Name, SDKVersion: identity.SDKVersion}
		return result, &PhaseError{Phase: PhaseCheckingInProgress, Err: inProgress}
	}

	scope := credentials.Scope{
		Account:          identity.Account,
		AppSlug:          identity.AppSlug,
		BundleIdentifier: identity.BundleIdentifier,
		Platform:         w.Platform.Name,
	}
	bundle, err := w.Credentials.Prepare(ctx, scope, req.Credentials)
	if err != nil {
		return result, &PhaseError{Phase: PhasePreparingCredentials, Err: err}
	}
	result.Bundle = bundle
	w.Console.Success("Signing credentials are ready")

	if req.PublicURL == "" {
		releaseID, err := w.Releases.EnsureRelease(ctx, identity, w.Platform.Name)
		if err != nil {
			return result, &PhaseError{Phase: PhaseCheckingPublish, Err: err}
		}
		result.ReleaseID = releaseID
	} else {
		// Self-hosted manifests have no publish step.
		w.Console.Info("Using public manifest URL, skipping publish check")
	}

	build, err := w.Scheduler.Schedule(ctx, identity, w.Platform.Name)
	if err != nil {
		return result, &PhaseError{Phase: PhaseScheduling, Err: err}
	}
	result.Build = build
	w.Console.Success(fmt.Sprintf("Build %s enqueued (%s)", build.BuildID, build.Status))
	return result, nil
}
