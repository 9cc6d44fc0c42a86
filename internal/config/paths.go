package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// expandPath expands environment variables and a leading ~ (or ~\ on
// Windows) to the user's home directory.
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	rest, ok := strings.CutPrefix(p, "~")
	if !ok {
		return p
	}
	sep := rest != "" && (rest[0] == '/' || (runtime.GOOS == "windows" && rest[0] == '\\'))
	if rest != "" && !sep {
		// ~user is not supported.
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if rest == "" {
		return home
	}
	return filepath.Join(home, rest[1:])
}

// resolvePath expands p and anchors it under base when relative.
func resolvePath(base, p string) string {
	p = expandPath(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
