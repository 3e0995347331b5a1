// Where: cli/internal/pathutil/pathutil_test.go
// What: Unit tests for path normalization and file loading.
// Why: Tilde, relative, and absolute inputs must resolve consistently.
package pathutil

import (
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestExpandTilde(t *testing.T) {
	restore := userHomeDir
	userHomeDir = func() (string, error) { return "/home/tester", nil }
	defer func() { userHomeDir = restore }()

	got, err := Expand("~/certs/dist.p12")
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := filepath.Join("/home/tester", "certs", "dist.p12")
	if got != want {
		t.Fatalf("Expand(~/...) = %q, want %q", got, want)
	}

	bare, err := Expand("~")
	if err != nil {
		t.Fatalf("Expand(~): %v", err)
	}
	if bare != "/home/tester" {
		t.Fatalf("Expand(~) = %q", bare)
	}
}

func TestExpandRelativeJoinsWorkingDirectory(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	got, err := Expand("keys/apns.p8")
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := filepath.Join(cwd, "keys", "apns.p8")
	if got != want {
		t.Fatalf("Expand(relative) = %q, want %q", got, want)
	}
}

func TestExpandAbsolutePassesThrough(t *testing.T) {
	got, err := Expand("/etc/certs/dist.p12")
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got != "/etc/certs/dist.p12" {
		t.Fatalf("Expand(absolute) = %q", got)
	}
}

func TestLoaderReadsAndEncodes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.mobileprovision")
	if err := os.WriteFile(path, []byte("profile-bytes"), 0o600); err != nil {
		t.Fatal(err)
	}

	plain, err := Loader{}.Load(path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if plain != "profile-bytes" {
		t.Fatalf("Load = %q", plain)
	}

	encoded, err := Loader{}.Load(path, true)
	if err != nil {
		t.Fatalf("Load base64: %v", err)
	}
	if encoded != base64.StdEncoding.EncodeToString([]byte("profile-bytes")) {
		t.Fatalf("Load base64 = %q", encoded)
	}
}

func TestLoaderMissingFileSurfacesNotExist(t *testing.T) {
	_, err := Loader{}.Load(filepath.Join(t.TempDir(), "nope.p12"), false)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}
