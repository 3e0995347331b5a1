// Where: cli/internal/authority/context.go
// What: Lazy, cached authority session for one run.
// Why: Guarantee at most one authentication handshake per run.
package authority

import (
	"context"
	"fmt"

	"github.com/poruru/mobile-signing-box/cli/internal/credentials"
)

// Context owns the run's authority sessions, keyed by
// (bundle identifier, account). It is created once per run and has no
// cross-run persistence or refresh logic.
type Context struct {
	api      API
	options  AuthOptions
	sessions map[string]*credentials.Session
}

// NewContext builds a session context around the portal API.
func NewContext(api API, options AuthOptions) *Context {
	return &Context{
		api:      api,
		options:  options,
		sessions: map[string]*credentials.Session{},
	}
}

// Session returns the cached session for the scope, authenticating on
// first use. Repeated calls within a run return the identical session.
func (c *Context) Session(ctx context.Context, scope credentials.Scope) (*credentials.Session, error) {
	key := scope.BundleIdentifier + "\x00" + scope.Account
	if session, ok := c.sessions[key]; ok {
		return session, nil
	}

	session, err := c.api.Authenticate(ctx, c.options, scope)
	if err != nil {
		return nil, fmt.Errorf("authenticate with developer portal: %w", err)
	}
	session.BundleIdentifier = scope.BundleIdentifier
	session.Account = scope.Account
	c.sessions[key] = session
	return session, nil
}
