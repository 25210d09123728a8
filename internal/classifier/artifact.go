package classifier

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveArtifactPath picks the effective model artifact location:
// the explicit hint if provided, else the MODEL_PATH environment variable,
// else the supplied default. A leading '~' is expanded.
func ResolveArtifactPath(hint, fallbackDefault string) (string, error) {
	p := hint
	if p == "" {
		p = os.Getenv("MODEL_PATH")
	}
	if p == "" {
		p = fallbackDefault
	}
	return expandHome(p)
}

// checkFileArtifact verifies a single-file artifact exists.
func checkFileArtifact(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrArtifactMissing(path)
		}
		return fmt.Errorf("stat artifact: %w", err)
	}
	if fi.IsDir() {
		return fmt.Errorf("artifact is a directory: %s", path)
	}
	return nil
}

// checkDirArtifact verifies a directory artifact exists and is non-empty.
// An empty directory counts as missing: the training job writes its output
// there, and an untouched output directory means no model was produced.
func checkDirArtifact(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrArtifactMissing(dir)
		}
		return fmt.Errorf("stat artifact: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("artifact is not a directory: %s", dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read artifact dir: %w", err)
	}
	if len(entries) == 0 {
		return ErrArtifactMissing(dir)
	}
	return nil
}

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
