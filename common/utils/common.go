package utils

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		return filepath.Join(HomeDir(), p[1:])
	}
	return p
}

// FindUpward walks from startDir towards the filesystem root and returns the
// first existing startDir/.../rel. The second result is false when none exists.
func FindUpward(startDir, rel string) (string, bool) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, rel)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
