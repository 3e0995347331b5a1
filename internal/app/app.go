// Where: cli/internal/app/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package app

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/poruru/mobile-signing-box/cli/internal/version"
)

// CLI defines the command-line interface structure parsed by Kong.
type CLI struct {
	EnvFile string `name:"env-file" help:"Path to .env file"`

	Prepare PrepareCmd `cmd:"" help:"Resolve signing credentials and schedule a release build"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// PrepareCmd holds the flags recognized by the prepare command.
type PrepareCmd struct {
	PublicURL string `name:"public-url" help:"Public manifest URL for self-hosted projects"`

	ClearCredentials         bool `name:"clear-credentials" help:"Clear every stored credential before resolving"`
	ClearDistCert            bool `name:"clear-dist-cert" help:"Clear the stored distribution certificate"`
	ClearPushKey             bool `name:"clear-push-key" help:"Clear the stored push key"`
	ClearPushCert            bool `name:"clear-push-cert" hidden:"" help:"Deprecated alias for --clear-push-key"`
	ClearProvisioningProfile bool `name:"clear-provisioning-profile" help:"Clear the stored provisioning profile"`
	RevokeCredentials        bool `name:"revoke-credentials" help:"Also revoke cleared credentials on the developer portal"`
}

type VersionCmd struct{}

// Run is the main entry point for CLI command execution. It parses the
// arguments, loads the environment file, and dispatches to the
// requested handler. Returns the process exit code.
func Run(args []string, deps Dependencies) int {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}

	cli := CLI{}
	parser, err := kong.New(&cli, kong.Name("msb"), kong.Exit(func(int) {}))
	if err != nil {
		return exitWithError(out, err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintln(out, err)
		return 1
	}

	// Load environment file if provided or if .env exists in current directory
	if cli.EnvFile != "" {
		if err := godotenv.Load(cli.EnvFile); err != nil {
			fmt.Fprintf(out, "Warning: failed to load env file %s: %v\n", cli.EnvFile, err)
		}
	} else {
		if _, err := os.Stat(".env"); err == nil {
			if err := godotenv.Load(); err != nil {
				fmt.Fprintf(out, "Warning: failed to load .env: %v\n", err)
			}
		}
	}

	switch ctx.Command() {
	case "prepare":
		return runPrepare(cli, deps, out)
	case "version":
		fmt.Fprintln(out, version.GetVersion())
		return 0
	}

	fmt.Fprintln(out, "unknown command")
	return 1
}
