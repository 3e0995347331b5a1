// Where: cli/internal/authority/managers.go
// What: Per-kind authority managers (generate/revoke/list).
// Why: Each signing artifact has its own portal workflow and limits.
package authority

import (
	"context"
	"fmt"

	"github.com/poruru/mobile-signing-box/cli/internal/credentials"
)

// Portal-imposed artifact limits per team.
const (
	maxDistributionCerts = 2
	maxPushKeys          = 2
)

// NewManagers builds one manager per credential kind against the
// portal API.
func NewManagers(api API) map[credentials.Kind]credentials.Manager {
	return map[credentials.Kind]credentials.Manager{
		credentials.KindDistributionCert:    DistCertManager{API: api, NameTemplate: DefaultCertNameTemplate},
		credentials.KindPushKey:             PushKeyManager{API: api, NameTemplate: DefaultPushKeyNameTemplate},
		credentials.KindProvisioningProfile: ProfileManager{API: api, NameTemplate: DefaultProfileNameTemplate},
	}
}

// DistCertManager manages distribution certificates.
type DistCertManager struct {
	API          API
	NameTemplate string
}

func (m DistCertManager) Generate(ctx context.Context, session *credentials.Session) (credentials.GeneratedCredential, error) {
	existing, err := m.List(ctx, session)
	if err != nil {
		return credentials.GeneratedCredential{}, &credentials.GenerationError{Kind: credentials.KindDistributionCert, Err: err}
	}
	if len(existing) >= maxDistributionCerts {
		err := fmt.Errorf("team already has %d distribution certificates (portal limit); revoke one first", len(existing))
		return credentials.GeneratedCredential{}, &credentials.GenerationError{Kind: credentials.KindDistributionCert, Err: err}
	}

	name, err := RenderName(m.NameTemplate, nameDataFor(session))
	if err != nil {
		return credentials.GeneratedCredential{}, &credentials.GenerationError{Kind: credentials.KindDistributionCert, Err: err}
	}
	result, err := m.API.CreateCertificate(ctx, session, name)
	if err != nil {
		return credentials.GeneratedCredential{}, &credentials.GenerationError{Kind: credentials.KindDistributionCert, Err: err}
	}
	return credentials.GeneratedCredential{
		HandleID: result.ID,
		Value: credentials.Value{Fields: map[string]string{
			"certP12":      result.CertP12,
			"certPassword": result.Password,
		}},
	}, nil
}

func (m DistCertManager) Revoke(ctx context.Context, session *credentials.Session, handleID string) error {
	return m.API.RevokeCertificate(ctx, session, handleID)
}

func (m DistCertManager) List(ctx context.Context, session *credentials.Session) ([]ArtifactSummary, error) {
	return m.API.ListCertificates(ctx, session)
}

// PushKeyManager manages APNs service keys.
type PushKeyManager struct {
	API          API
	NameTemplate string
}

func (m PushKeyManager) Generate(ctx context.Context, session *credentials.Session) (credentials.GeneratedCredential, error) {
	existing, err := m.List(ctx, session)
	if err != nil {
		return credentials.GeneratedCredential{}, &credentials.GenerationError{Kind: credentials.KindPushKey, Err: err}
	}
	if len(existing) >= maxPushKeys {
		err := fmt.Errorf("team already has %d APNs keys (portal limit); revoke one first", len(existing))
		return credentials.GeneratedCredential{}, &credentials.GenerationError{Kind: credentials.KindPushKey, Err: err}
	}

	name, err := RenderName(m.NameTemplate, nameDataFor(session))
	if err != nil {
		return credentials.GeneratedCredential{}, &credentials.GenerationError{Kind: credentials.KindPushKey, Err: err}
	}
	result, err := m.API.CreatePushKey(ctx, session, name)
	if err != nil {
		return credentials.GeneratedCredential{}, &credentials.GenerationError{Kind: credentials.KindPushKey, Err: err}
	}
	return credentials.GeneratedCredential{
		HandleID: result.ID,
		Value: credentials.Value{Fields: map[string]string{
			"apnsKeyP8": result.KeyP8,
			"apnsKeyId": result.KeyID,
		}},
	}, nil
}

func (m PushKeyManager) Revoke(ctx context.Context, session *credentials.Session, handleID string) error {
	return m.API.RevokePushKey(ctx, session, handleID)
}

func (m PushKeyManager) List(ctx context.Context, session *credentials.Session) ([]ArtifactSummary, error) {
	return m.API.ListPushKeys(ctx, session)
}

// ProfileManager manages provisioning profiles.
type ProfileManager struct {
	API          API
	NameTemplate string
}

func (m ProfileManager) Generate(ctx context.Context, session *credentials.Session) (credentials.GeneratedCredential, error) {
	name, err := RenderName(m.NameTemplate, nameDataFor(session))
	if err != nil {
		return credentials.GeneratedCredential{}, &credentials.GenerationError{Kind: credentials.KindProvisioningProfile, Err: err}
	}

	// A stale profile with the same name blocks creation; delete it
	// before issuing a replacement.
	existing, err := m.List(ctx, session)
	if err != nil {
		return credentials.GeneratedCredential{}, &credentials.GenerationError{Kind: credentials.KindProvisioningProfile, Err: err}
	}
	for _, profile := range existing {
		if profile.Name == name {
			if err := m.API.DeleteProfile(ctx, session, profile.ID); err != nil {
				return credentials.GeneratedCredential{}, &credentials.GenerationError{Kind: credentials.KindProvisioningProfile, Err: err}
			}
		}
	}

	result, err := m.API.CreateProfile(ctx, session, name)
	if err != nil {
		return credentials.GeneratedCredential{}, &credentials.GenerationError{Kind: credentials.KindProvisioningProfile, Err: err}
	}
	return credentials.GeneratedCredential{
		HandleID: result.ID,
		Value:    credentials.Value{Scalar: result.Profile},
	}, nil
}

func (m ProfileManager) Revoke(ctx context.Context, session *credentials.Session, handleID string) error {
	return m.API.DeleteProfile(ctx, session, handleID)
}

func (m ProfileManager) List(ctx context.Context, session *credentials.Session) ([]ArtifactSummary, error) {
	return m.API.ListProfiles(ctx, session)
}
