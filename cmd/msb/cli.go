// Where: cli/cmd/msb/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/poruru/mobile-signing-box/cli/internal/app"
	"github.com/poruru/mobile-signing-box/cli/internal/authority"
	"github.com/poruru/mobile-signing-box/cli/internal/credentials"
	"github.com/poruru/mobile-signing-box/cli/internal/interaction"
	"github.com/poruru/mobile-signing-box/cli/internal/manifest"
	"github.com/poruru/mobile-signing-box/cli/internal/pathutil"
	"github.com/poruru/mobile-signing-box/cli/internal/scheduler"
	"github.com/poruru/mobile-signing-box/cli/internal/store"
	"github.com/poruru/mobile-signing-box/cli/internal/ui"
	"github.com/poruru/mobile-signing-box/cli/internal/workflows"
)

var getwd = os.Getwd

// buildDependencies constructs all runtime dependencies required by
// the CLI.
func buildDependencies() (app.Dependencies, error) {
	projectDir, err := getwd()
	if err != nil {
		return app.Dependencies{}, err
	}

	deps := app.Dependencies{
		ProjectDir: projectDir,
		Out:        os.Stdout,
		Prepare: app.PrepareDeps{
			WorkflowFactory: func(out io.Writer) (app.PrepareRunner, error) {
				return buildPrepareWorkflow(projectDir, out)
			},
		},
	}
	return deps, nil
}

// buildPrepareWorkflow wires the full preparation stack. It runs after
// the env file is loaded so endpoint configuration is honored.
func buildPrepareWorkflow(projectDir string, out io.Writer) (app.PrepareRunner, error) {
	storeEndpoint := os.Getenv("MSB_STORE_ENDPOINT")
	portalEndpoint := os.Getenv("MSB_PORTAL_ENDPOINT")
	buildEndpoint := os.Getenv("MSB_BUILD_ENDPOINT")
	table := os.Getenv("MSB_STORE_TABLE")
	bucket := os.Getenv("MSB_STORE_BUCKET")

	var missing []string
	for name, value := range map[string]string{
		"MSB_PORTAL_ENDPOINT": portalEndpoint,
		"MSB_BUILD_ENDPOINT":  buildEndpoint,
		"MSB_STORE_TABLE":     table,
		"MSB_STORE_BUCKET":    bucket,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing required environment: %s", strings.Join(missing, ", "))
	}

	ctx := context.Background()
	factory := store.NewClientFactory()
	storeCfg := store.Config{Table: table, Bucket: bucket, Endpoint: storeEndpoint}
	index, err := factory.Index(ctx, storeCfg)
	if err != nil {
		return nil, fmt.Errorf("build credential index client: %w", err)
	}
	blobs, err := factory.Blobs(ctx, storeCfg)
	if err != nil {
		return nil, fmt.Errorf("build credential blob client: %w", err)
	}

	portal := authority.NewPortalClient(portalEndpoint)
	sessions := authority.NewContext(portal, authority.AuthOptions{
		AppleID:  os.Getenv("MSB_APPLE_ID"),
		Password: os.Getenv("MSB_APPLE_PASSWORD"),
		TeamID:   os.Getenv("MSB_APPLE_TEAM_ID"),
	})

	resolver := credentials.Resolver{
		Store:    store.New(index, blobs),
		Sessions: sessions,
		Managers: authority.NewManagers(portal),
		Collector: credentials.Collector{
			Prompter:    interaction.HuhPrompter{},
			Loader:      pathutil.Loader{},
			Out:         out,
			Interactive: interaction.IsTerminal(os.Stdin),
		},
		Out: out,
	}

	buildService := scheduler.NewClient(buildEndpoint)
	workflow := workflows.PrepareWorkflow{
		Platform:    workflows.IOS,
		Metadata:    manifest.NewResolver(projectDir),
		Status:      buildService,
		Credentials: resolver,
		Releases:    buildService,
		Scheduler:   buildService,
		Console:     ui.New(out),
	}
	return workflow, nil
}
