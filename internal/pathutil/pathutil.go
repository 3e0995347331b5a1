// Where: cli/internal/pathutil/pathutil.go
// What: User path normalization and credential file loading.
// Why: Resolve tilde/relative paths before any file-based input is read.
package pathutil

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// userHomeDir is swappable for tests.
var userHomeDir = os.UserHomeDir

// Expand resolves a user-supplied path to an absolute one: a leading
// tilde maps to the home directory, relative paths are joined with the
// working directory, absolute paths pass through unchanged.
func Expand(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := userHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed), nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", trimmed, err)
	}
	return abs, nil
}

// Loader reads credential material from disk.
type Loader struct{}

// Load expands the path, verifies the file exists, and returns its
// content, base64-encoded when requested. A missing file surfaces the
// underlying fs.ErrNotExist so callers can re-prompt.
func (Loader) Load(path string, base64Encode bool) (string, error) {
	abs, err := Expand(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("stat %s: %w", abs, err)
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", abs, err)
	}
	if base64Encode {
		return base64.StdEncoding.EncodeToString(content), nil
	}
	return string(content), nil
}
