// Where: cli/internal/credentials/errors.go
// What: Typed errors for credential resolution.
// Why: Let callers distinguish store, authority, and input failures.
package credentials

import "fmt"

// StoreError wraps a remote credential store failure.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("credential store: %v", e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// AuthorityError wraps a certificate authority call failure for one
// kind (authentication, listing, revocation).
type AuthorityError struct {
	Kind Kind
	Err  error
}

func (e *AuthorityError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("authority: %v", e.Err)
	}
	return fmt.Sprintf("authority call for %s: %v", e.Kind, e.Err)
}

func (e *AuthorityError) Unwrap() error { return e.Err }

// GenerationError reports a failed artifact generation, including
// quota and duplicate-name conflicts surfaced by the authority.
type GenerationError struct {
	Kind Kind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ValidationError reports invalid interactive input for one field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Reason)
}

// ConsistencyError reports a kind that ended up both user-provided and
// authority-generated. The partition in the collector should make this
// impossible; treat it as a bug, not as a silent overwrite.
type ConsistencyError struct {
	Kind Kind
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("credential %s is both user-provided and generated", e.Kind)
}
