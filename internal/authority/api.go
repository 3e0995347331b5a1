// Where: cli/internal/authority/api.go
// What: Certificate authority (developer portal) API contract.
// Why: Keep managers testable against a fake portal.
package authority

import (
	"context"

	"github.com/poruru/mobile-signing-box/cli/internal/credentials"
)

// AuthOptions carries the material used for the one authentication
// handshake per run.
type AuthOptions struct {
	AppleID  string
	Password string
	TeamID   string
}

// ArtifactSummary describes one existing artifact on the portal.
type ArtifactSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Serial    string `json:"serial"`
	ExpiresAt string `json:"expiresAt"`
}

// CertificateResult is a freshly issued distribution certificate. ID
// is the portal's artifact id, used later to revoke it.
type CertificateResult struct {
	ID       string `json:"id"`
	CertP12  string `json:"certP12"` // base64-encoded PKCS#12 archive
	Password string `json:"password"`
}

// PushKeyResult is a freshly issued APNs service key.
type PushKeyResult struct {
	ID    string `json:"id"`
	KeyP8 string `json:"keyP8"`
	KeyID string `json:"keyId"`
}

// ProfileResult is a freshly issued provisioning profile.
type ProfileResult struct {
	ID      string `json:"id"`
	Profile string `json:"profile"` // base64-encoded .mobileprovision
}

// API is the portal surface the managers operate against.
type API interface {
	Authenticate(ctx context.Context, opts AuthOptions, scope credentials.Scope) (*credentials.Session, error)

	ListCertificates(ctx context.Context, session *credentials.Session) ([]ArtifactSummary, error)
	CreateCertificate(ctx context.Context, session *credentials.Session, name string) (CertificateResult, error)
	RevokeCertificate(ctx context.Context, session *credentials.Session, id string) error

	ListPushKeys(ctx context.Context, session *credentials.Session) ([]ArtifactSummary, error)
	CreatePushKey(ctx context.Context, session *credentials.Session, name string) (PushKeyResult, error)
	RevokePushKey(ctx context.Context, session *credentials.Session, id string) error

	ListProfiles(ctx context.Context, session *credentials.Session) ([]ArtifactSummary, error)
	CreateProfile(ctx context.Context, session *credentials.Session, name string) (ProfileResult, error)
	DeleteProfile(ctx context.Context, session *credentials.Session, id string) error
}
