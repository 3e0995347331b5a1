// Where: cli/internal/manifest/manifest.go
// What: Project identity resolution from remote or local publish info.
// Why: The build run is scoped by (account, slug, bundle id, sdk version).
package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMetadataUnavailable reports that neither the public URL nor the
// local project yielded the identity fields.
var ErrMetadataUnavailable = errors.New("project metadata unavailable")

// Identity uniquely scopes all credential and build operations for one
// run. Immutable once fetched.
type Identity struct {
	Account          string
	AppSlug          string
	BundleIdentifier string
	SDKVersion       string
}

// appManifest mirrors the publish info document, remote (JSON) or
// local (YAML).
type appManifest struct {
	Owner      string `json:"owner" yaml:"owner"`
	Slug       string `json:"slug" yaml:"slug"`
	SDKVersion string `json:"sdkVersion" yaml:"sdkVersion"`
	IOS        struct {
		BundleIdentifier string `json:"bundleIdentifier" yaml:"bundleIdentifier"`
	} `json:"ios" yaml:"ios"`
}

const (
	localManifestName     = "app.yaml"
	defaultFetchTimeout   = 15 * time.Second
	remoteManifestMaxSize = 1 << 20
)

// Resolver loads the project identity.
type Resolver struct {
	ProjectDir string
	HTTPClient *http.Client
}

// NewResolver builds a Resolver rooted at the project directory.
func NewResolver(projectDir string) Resolver {
	return Resolver{
		ProjectDir: projectDir,
		HTTPClient: &http.Client{Timeout: defaultFetchTimeout},
	}
}

// Fetch resolves the identity from the hosted manifest when a public
// URL is given, otherwise from the local project's publish info.
func (r Resolver) Fetch(ctx context.Context, publicURL string) (Identity, error) {
	var (
		doc appManifest
		err error
	)
	if publicURL != "" {
		doc, err = r.fetchRemote(ctx, publicURL)
	} else {
		doc, err = r.readLocal()
	}
	if err != nil {
		return Identity{}, err
	}

	identity := Identity{
		Account:          doc.Owner,
		AppSlug:          doc.Slug,
		BundleIdentifier: doc.IOS.BundleIdentifier,
		SDKVersion:       doc.SDKVersion,
	}
	if identity.Account == "" || identity.AppSlug == "" || identity.BundleIdentifier == "" || identity.SDKVersion == "" {
		return Identity{}, fmt.Errorf("%w: manifest is missing identity fields", ErrMetadataUnavailable)
	}
	return identity, nil
}

func (r Resolver) fetchRemote(ctx context.Context, publicURL string) (appManifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, publicURL, nil)
	if err != nil {
		return appManifest{}, fmt.Errorf("%w: %v", ErrMetadataUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return appManifest{}, fmt.Errorf("%w: fetch %s: %v", ErrMetadataUnavailable, publicURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return appManifest{}, fmt.Errorf("%w: %s responded with status %d", ErrMetadataUnavailable, publicURL, resp.StatusCode)
	}

	var doc appManifest
	decoder := json.NewDecoder(http.MaxBytesReader(nil, resp.Body, remoteManifestMaxSize))
	if err := decoder.Decode(&doc); err != nil {
		return appManifest{}, fmt.Errorf("%w: decode manifest from %s: %v", ErrMetadataUnavailable, publicURL, err)
	}
	return doc, nil
}

func (r Resolver) readLocal() (appManifest, error) {
	path := filepath.Join(r.ProjectDir, localManifestName)
	content, err := os.ReadFile(path)
	if err != nil {
		return appManifest{}, fmt.Errorf("%w: read %s: %v", ErrMetadataUnavailable, path, err)
	}
	if err := validateManifest(content); err != nil {
		return appManifest{}, fmt.Errorf("validate %s: %w", path, err)
	}

	var doc appManifest
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return appManifest{}, fmt.Errorf("%w: decode %s: %v", ErrMetadataUnavailable, path, err)
	}
	return doc, nil
}
