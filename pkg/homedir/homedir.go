// Package homedir expands a leading tilde in user-supplied paths.
package homedir

import (
	"os"
	"path/filepath"
	"strings"
)

// Expand replaces a leading ~ with the current user's home directory.
// Paths of the form ~user are returned unchanged.
func Expand(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
