package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrOutsideAssets is returned for paths that do not resolve below the assets directory.
var ErrOutsideAssets = errors.New("path outside assets directory")

// canonical resolves path against root and returns the container key (slash
// separated, NFC normalized, relative to root) and the absolute file path.
// Relative paths that do not start with the root as given are taken relative
// to the root.
func canonical(root, given, path string) (key, abs string, err error) {
	if strings.TrimSpace(path) == "" {
		return "", "", fmt.Errorf("empty asset path: %w", ErrOutsideAssets)
	}
	p := filepath.Clean(filepath.FromSlash(path))
	switch {
	case filepath.IsAbs(p):
	case p == given || strings.HasPrefix(p, given+string(filepath.Separator)):
		if p, err = filepath.Abs(p); err != nil {
			return "", "", fmt.Errorf("resolve %s: %w", path, err)
		}
	default:
		p = filepath.Join(root, p)
	}
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", fmt.Errorf("%s: %w", path, ErrOutsideAssets)
	}
	return norm.NFC.String(filepath.ToSlash(rel)), p, nil
}
