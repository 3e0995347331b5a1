// Where: cli/internal/authority/portal.go
// What: HTTP implementation of the portal API.
// Why: Talk to the developer portal gateway with bounded timeouts.
package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/poruru/mobile-signing-box/cli/internal/credentials"
)

const defaultPortalTimeout = 30 * time.Second

// PortalClient calls the developer portal gateway over HTTPS.
type PortalClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewPortalClient builds a client with the default bounded timeout.
func NewPortalClient(baseURL string) *PortalClient {
	return &PortalClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultPortalTimeout},
	}
}

type authRequest struct {
	AppleID          string `json:"appleId"`
	Password         string `json:"password"`
	TeamID           string `json:"teamId,omitempty"`
	BundleIdentifier string `json:"bundleIdentifier"`
}

type authResponse struct {
	AuthToken string `json:"authToken"`
	TeamID    string `json:"teamId"`
	TeamName  string `json:"teamName"`
}

func (c *PortalClient) Authenticate(ctx context.Context, opts AuthOptions, scope credentials.Scope) (*credentials.Session, error) {
	var resp authResponse
	req := authRequest{
		AppleID:          opts.AppleID,
		Password:         opts.Password,
		TeamID:           opts.TeamID,
		BundleIdentifier: scope.BundleIdentifier,
	}
	if err := c.call(ctx, http.MethodPost, "/auth/session", "", req, &resp); err != nil {
		return nil, err
	}
	return &credentials.Session{
		AuthToken: resp.AuthToken,
		TeamID:    resp.TeamID,
		TeamName:  resp.TeamName,
	}, nil
}

type createRequest struct {
	Name             string `json:"name"`
	BundleIdentifier string `json:"bundleIdentifier"`
}

func (c *PortalClient) ListCertificates(ctx context.Context, session *credentials.Session) ([]ArtifactSummary, error) {
	return c.list(ctx, session, "/certificates")
}

func (c *PortalClient) CreateCertificate(ctx context.Context, session *credentials.Session, name string) (CertificateResult, error) {
	var result CertificateResult
	req := createRequest{Name: name, BundleIdentifier: session.BundleIdentifier}
	err := c.call(ctx, http.MethodPost, "/certificates", session.AuthToken, req, &result)
	return result, err
}

func (c *PortalClient) RevokeCertificate(ctx context.Context, session *credentials.Session, id string) error {
	return c.delete(ctx, session, "/certificates/"+id)
}

func (c *PortalClient) ListPushKeys(ctx context.Context, session *credentials.Session) ([]ArtifactSummary, error) {
	return c.list(ctx, session, "/push-keys")
}

func (c *PortalClient) CreatePushKey(ctx context.Context, session *credentials.Session, name string) (PushKeyResult, error) {
	var result PushKeyResult
	req := createRequest{Name: name, BundleIdentifier: session.BundleIdentifier}
	err := c.call(ctx, http.MethodPost, "/push-keys", session.AuthToken, req, &result)
	return result, err
}

func (c *PortalClient) RevokePushKey(ctx context.Context, session *credentials.Session, id string) error {
	return c.delete(ctx, session, "/push-keys/"+id)
}

func (c *PortalClient) ListProfiles(ctx context.Context, session *credentials.Session) ([]ArtifactSummary, error) {
	return c.list(ctx, session, "/profiles")
}

func (c *PortalClient) CreateProfile(ctx context.Context, session *credentials.Session, name string) (ProfileResult, error) {
	var result ProfileResult
	req := createRequest{Name: name, BundleIdentifier: session.BundleIdentifier}
	err := c.call(ctx, http.MethodPost, "/profiles", session.AuthToken, req, &result)
	return result, err
}

func (c *PortalClient) DeleteProfile(ctx context.Context, session *credentials.Session, id string) error {
	return c.delete(ctx, session, "/profiles/"+id)
}

func (c *PortalClient) list(ctx context.Context, session *credentials.Session, path string) ([]ArtifactSummary, error) {
	var result []ArtifactSummary
	if err := c.call(ctx, http.MethodGet, path, session.AuthToken, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// delete is idempotent: revoking an already-revoked artifact reports
// not-found, which counts as done.
func (c *PortalClient) delete(ctx context.Context, session *credentials.Session, path string) error {
	err := c.call(ctx, http.MethodDelete, path, session.AuthToken, nil, nil)
	if isNotFound(err) {
		return nil
	}
	return err
}

type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("portal responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("portal responded with status %d: %s", e.StatusCode, e.Body)
}

func isNotFound(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.StatusCode == http.StatusNotFound
}

func (c *PortalClient) call(ctx context.Context, method, path, token string, body, out any) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode portal request: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build portal request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("portal request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &statusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode portal response: %w", err)
	}
	return nil
}
