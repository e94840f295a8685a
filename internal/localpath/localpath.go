// Package localpath resolves user-configured file settings to local paths.
package localpath

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// Expand resolves a leading "~" and environment variables in p.
// Blank input stays blank so callers can tell an unset setting apart.
func Expand(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}

	p = os.ExpandEnv(p)
	if expanded, err := homedir.Expand(p); err == nil {
		p = expanded
	}
	return filepath.Clean(p)
}
