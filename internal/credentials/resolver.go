// Where: cli/internal/credentials/resolver.go
// What: Credential reconciliation core.
// Why: Compute clear/missing/merge decisions in one auditable place.
package credentials

import (
	"context"
	"fmt"
	"io"
)

// Options are the per-run clearing and revocation instructions.
type Options struct {
	ClearAll                 bool
	ClearDistCert            bool
	ClearPushKey             bool
	ClearPushCert            bool // deprecated alias for ClearPushKey
	ClearProvisioningProfile bool
	RevokeCleared            bool
}

// ClearSet is the set of kinds flagged for clearing.
type ClearSet map[Kind]struct{}

// Kinds returns the set members in catalog order.
func (s ClearSet) Kinds() []Kind {
	var kinds []Kind
	for _, kind := range AllKinds() {
		if _, ok := s[kind]; ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// ClearSetFrom derives the clear set from run options. ClearAll forces
// every kind; the deprecated push-cert flag maps onto the push key via
// the alias table.
func ClearSetFrom(opts Options) ClearSet {
	set := ClearSet{}
	mark := func(on bool, kind Kind) {
		if on || opts.ClearAll {
			set[Canonical(kind)] = struct{}{}
		}
	}
	mark(opts.ClearDistCert, KindDistributionCert)
	mark(opts.ClearPushKey, KindPushKey)
	mark(opts.ClearPushCert, KindPushCert)
	mark(opts.ClearProvisioningProfile, KindProvisioningProfile)
	return set
}

// Store is the remote credential persistence contract.
type Store interface {
	Fetch(ctx context.Context, scope Scope) (Existing, error)
	Update(ctx context.Context, scope Scope, bundle Bundle, existingHandleIDs map[Kind]string) error
	Remove(ctx context.Context, scope Scope, kinds []Kind) error
}

// SessionProvider hands out the run's authority session, creating it
// on first use.
type SessionProvider interface {
	Session(ctx context.Context, scope Scope) (*Session, error)
}

// GeneratedCredential pairs a generated value with the artifact id the
// authority issued for it. The id becomes the stored handle, so a
// later revocation targets the real portal artifact.
type GeneratedCredential struct {
	Value    Value
	HandleID string
}

// Manager exposes the authority operations for one credential kind.
type Manager interface {
	Generate(ctx context.Context, session *Session) (GeneratedCredential, error)
	Revoke(ctx context.Context, session *Session, handleID string) error
}

// ValueCollector gathers user-provided values for missing kinds.
type ValueCollector interface {
	Collect(missing []Kind) (Bundle, []Kind, error)
}

// Resolver produces a complete credential bundle for one scope.
type Resolver struct {
	Store     Store
	Sessions  SessionProvider
	Managers  map[Kind]Manager
	Collector ValueCollector
	Out       io.Writer
}

// Prepare resolves the full bundle: clears and optionally revokes the
// requested kinds, fetches what remains, collects or generates the
// missing kinds, persists the merged result, and returns it. Partial
// side effects are not rolled back on failure.
func (r Resolver) Prepare(ctx context.Context, scope Scope, opts Options) (Bundle, error) {
	if err := r.clearIfRequested(ctx, scope, opts); err != nil {
		return nil, err
	}

	existing, err := r.Store.Fetch(ctx, scope)
	if err != nil {
		return nil, &StoreError{Err: err}
	}

	bundle := Bundle{}
	handleIDs := map[Kind]string{}
	for kind, stored := range existing {
		bundle[kind] = stored.Value
		handleIDs[kind] = stored.HandleID
	}

	missing := MissingKinds(existing)
	if len(missing) == 0 {
		// Nothing to do; no authority session is created.
		return bundle, nil
	}

	session, err := r.Sessions.Session(ctx, scope)
	if err != nil {
		return nil, &AuthorityError{Kind: "", Err: err}
	}

	provided, toGenerate, err := r.Collector.Collect(missing)
	if err != nil {
		return nil, err
	}
	// The collector partitions missing kinds between the two sources;
	// overlap here is a bug, not something to paper over.
	for _, kind := range toGenerate {
		if _, ok := provided[kind]; ok {
			return nil, &ConsistencyError{Kind: kind}
		}
	}

	generated, generatedHandles, err := r.generate(ctx, session, toGenerate)
	if err != nil {
		return nil, err
	}
	for kind, handleID := range generatedHandles {
		handleIDs[kind] = handleID
	}

	merged := Merge(provided, generated)
	for kind, value := range merged {
		bundle[kind] = value
	}

	if err := r.Store.Update(ctx, scope, merged, handleIDs); err != nil {
		return nil, &StoreError{Err: err}
	}
	return bundle, nil
}

// clearIfRequested removes flagged kinds from the store and, when
// revocation is requested, revokes the handles that were actually
// present. Removing an absent kind is a no-op.
func (r Resolver) clearIfRequested(ctx context.Context, scope Scope, opts Options) error {
	clearSet := ClearSetFrom(opts)
	if len(clearSet) == 0 {
		return nil
	}

	var cleared Existing
	if opts.RevokeCleared {
		// Handles are only known before removal.
		before, err := r.Store.Fetch(ctx, scope)
		if err != nil {
			return &StoreError{Err: err}
		}
		cleared = before
	}

	if err := r.Store.Remove(ctx, scope, clearSet.Kinds()); err != nil {
		return &StoreError{Err: err}
	}
	fmt.Fprintln(r.Out, "Removed existing credentials from the credential store")

	if !opts.RevokeCleared {
		return nil
	}

	session, err := r.Sessions.Session(ctx, scope)
	if err != nil {
		return &AuthorityError{Kind: "", Err: err}
	}
	for _, kind := range clearSet.Kinds() {
		stored, ok := cleared[kind]
		if !ok {
			continue
		}
		manager, ok := r.Managers[kind]
		if !ok {
			return fmt.Errorf("no authority manager for %s", kind)
		}
		if err := manager.Revoke(ctx, session, stored.HandleID); err != nil {
			return &AuthorityError{Kind: kind, Err: err}
		}
	}
	return nil
}

func (r Resolver) generate(ctx context.Context, session *Session, kinds []Kind) (Bundle, map[Kind]string, error) {
	generated := Bundle{}
	handles := map[Kind]string{}
	for _, kind := range kinds {
		manager, ok := r.Managers[kind]
		if !ok {
			return nil, nil, fmt.Errorf("no authority manager for %s", kind)
		}
		artifact, err := manager.Generate(ctx, session)
		if err != nil {
			return nil, nil, err
		}
		generated[kind] = artifact.Value
		if artifact.HandleID != "" {
			handles[kind] = artifact.HandleID
		}
	}
	return generated, handles, nil
}

// Merge combines user-provided and generated values into one bundle.
// On key collision the user-provided value wins.
func Merge(provided, generated Bundle) Bundle {
	merged := Bundle{}
	for kind, value := range generated {
		merged[kind] = value
	}
	for kind, value := range provided {
		merged[kind] = value
	}
	return merged
}
