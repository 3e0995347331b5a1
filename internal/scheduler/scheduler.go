// Where: cli/internal/scheduler/scheduler.go
// What: Build service client (status, releases, scheduling).
// Why: Submit signed-build requests and gate on preconditions.
package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/poruru/mobile-signing-box/cli/internal/manifest"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultAckTimeout     = 2 * time.Minute
	ackPollInterval       = 2 * time.Second
)

// Status is the in-progress probe result for (platform, sdk version).
type Status struct {
	InProgress bool `json:"inProgress"`
}

// BuildResult is the scheduler's acknowledgement of an enqueued build.
// Build completion is awaited elsewhere, not by this client.
type BuildResult struct {
	BuildID string `json:"buildId"`
	Status  string `json:"status"`
}

// Client talks to the build service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	AckTimeout time.Duration
}

// NewClient builds a Client with bounded timeouts.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultRequestTimeout},
		AckTimeout: defaultAckTimeout,
	}
}

// CheckStatus probes for an in-progress build. This is a point-in-time
// query, not a lock: two runs racing past it at the same instant may
// both proceed.
func (c *Client) CheckStatus(ctx context.Context, platform, sdkVersion string) (Status, error) {
	var status Status
	query := url.Values{"platform": {platform}, "sdkVersion": {sdkVersion}}
	if err := c.call(ctx, http.MethodGet, "/builds/status?"+query.Encode(), nil, &status); err != nil {
		return Status{}, err
	}
	return status, nil
}

type releaseRequest struct {
	Owner    string `json:"owner"`
	Slug     string `json:"slug"`
	Platform string `json:"platform"`
}

type releaseResponse struct {
	ReleaseID string `json:"releaseId"`
	Exists    bool   `json:"exists"`
}

// EnsureRelease makes sure a release exists for the platform,
// publishing one when absent, and returns its id.
func (c *Client) EnsureRelease(ctx context.Context, identity manifest.Identity, platform string) (string, error) {
	query := url.Values{"owner": {identity.Account}, "slug": {identity.AppSlug}, "platform": {platform}}
	var existing releaseResponse
	if err := c.call(ctx, http.MethodGet, "/releases?"+query.Encode(), nil, &existing); err != nil {
		return "", err
	}
	if existing.Exists {
		return existing.ReleaseID, nil
	}

	var published releaseResponse
	req := releaseRequest{Owner: identity.Account, Slug: identity.AppSlug, Platform: platform}
	if err := c.call(ctx, http.MethodPost, "/releases", req, &published); err != nil {
		return "", fmt.Errorf("publish release: %w", err)
	}
	return published.ReleaseID, nil
}

type scheduleRequest struct {
	Owner            string `json:"owner"`
	Slug             string `json:"slug"`
	BundleIdentifier string `json:"bundleIdentifier"`
	SDKVersion       string `json:"sdkVersion"`
	Platform         string `json:"platform"`
}

// Schedule submits a signed-build request and blocks until the
// scheduler acknowledges enqueue (not until the build finishes).
func (c *Client) Schedule(ctx context.Context, identity manifest.Identity, platform string) (BuildResult, error) {
	req := scheduleRequest{
		Owner:            identity.Account,
		Slug:             identity.AppSlug,
		BundleIdentifier: identity.BundleIdentifier,
		SDKVersion:       identity.SDKVersion,
		Platform:         platform,
	}
	var result BuildResult
	if err := c.call(ctx, http.MethodPost, "/builds", req, &result); err != nil {
		return BuildResult{}, err
	}
	if acknowledged(result.Status) {
		return result, nil
	}

	deadline := time.Now().Add(c.AckTimeout)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return BuildResult{}, ctx.Err()
		case <-time.After(ackPollInterval):
		}

		if err := c.call(ctx, http.MethodGet, "/builds/"+result.BuildID, nil, &result); err != nil {
			return BuildResult{}, err
		}
		if acknowledged(result.Status) {
			return result, nil
		}
	}
	return BuildResult{}, fmt.Errorf("build %s was not acknowledged within %s", result.BuildID, c.AckTimeout)
}

func acknowledged(status string) bool {
	switch status {
	case "queued", "accepted", "in-progress":
		return true
	}
	return false
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode build request: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("build service %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("build service responded with status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode build service response: %w", err)
	}
	return nil
}
