// Where: cli/internal/manifest/manifest_test.go
// What: Unit tests for identity resolution and validation.
// Why: Identity fields scope every remote call; they must be trustworthy.
package manifest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const validManifest = `owner: acme
slug: squirrel
sdkVersion: "52.0.0"
ios:
  bundleIdentifier: com.acme.squirrel
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, localManifestName), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestFetchLocalManifest(t *testing.T) {
	resolver := NewResolver(writeManifest(t, validManifest))

	identity, err := resolver.Fetch(context.Background(), "")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	want := Identity{
		Account:          "acme",
		AppSlug:          "squirrel",
		BundleIdentifier: "com.acme.squirrel",
		SDKVersion:       "52.0.0",
	}
	if identity != want {
		t.Fatalf("identity = %+v, want %+v", identity, want)
	}
}

func TestFetchLocalManifestMissingFile(t *testing.T) {
	resolver := NewResolver(t.TempDir())

	_, err := resolver.Fetch(context.Background(), "")
	if !errors.Is(err, ErrMetadataUnavailable) {
		t.Fatalf("expected ErrMetadataUnavailable, got %v", err)
	}
}

func TestFetchLocalManifestFailsSchema(t *testing.T) {
	dir := writeManifest(t, "owner: acme\nslug: UPPER_CASE\n")
	resolver := NewResolver(dir)

	if _, err := resolver.Fetch(context.Background(), ""); err == nil {
		t.Fatal("expected schema validation error")
	}
}

func TestFetchRemoteManifest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"owner": "acme",
			"slug": "squirrel",
			"sdkVersion": "52.0.0",
			"ios": {"bundleIdentifier": "com.acme.squirrel"}
		}`))
	}))
	defer server.Close()

	resolver := NewResolver("/unused")
	identity, err := resolver.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if identity.BundleIdentifier != "com.acme.squirrel" {
		t.Fatalf("identity = %+v", identity)
	}
}

func TestFetchRemoteManifestBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	resolver := NewResolver("/unused")
	_, err := resolver.Fetch(context.Background(), server.URL)
	if !errors.Is(err, ErrMetadataUnavailable) {
		t.Fatalf("expected ErrMetadataUnavailable, got %v", err)
	}
}

func TestFetchRemoteManifestMissingIdentityFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"owner": "acme"}`))
	}))
	defer server.Close()

	resolver := NewResolver("/unused")
	_, err := resolver.Fetch(context.Background(), server.URL)
	if !errors.Is(err, ErrMetadataUnavailable) {
		t.Fatalf("expected ErrMetadataUnavailable, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := Identity{
		Account:          "acme",
		AppSlug:          "squirrel",
		BundleIdentifier: "com.acme.squirrel",
		SDKVersion:       "52.0.0",
	}
	if err := Validate(valid); err != nil {
		t.Fatalf("Validate(valid) = %v", err)
	}

	noBundle := valid
	noBundle.BundleIdentifier = "  "
	var invalid *InvalidProjectError
	if err := Validate(noBundle); !errors.As(err, &invalid) || invalid.Field != "bundleIdentifier" {
		t.Fatalf("Validate(no bundle) = %v", err)
	}

	oldSDK := valid
	oldSDK.SDKVersion = "30.0.0"
	if err := Validate(oldSDK); !errors.As(err, &invalid) || invalid.Field != "sdkVersion" {
		t.Fatalf("Validate(old sdk) = %v", err)
	}
}
