package filestore

import (
	"fmt"
	"path"
	"strings"

	"github.com/code19m/errx"
)

const (
	CodeFileNotFound = "FILE_NOT_FOUND"
	// CodeInvalidPath marks paths that are empty or leave the store root.
	CodeInvalidPath = "INVALID_FILE_PATH"
)

// ErrNotFound reports that nothing is stored at path.
func ErrNotFound(path string) error {
	return errx.New(
		fmt.Sprintf("file %q not found", path),
		errx.WithCode(CodeFileNotFound),
		errx.WithType(errx.T_NotFound),
	)
}

// ErrInvalidPath reports a path no backend may address.
func ErrInvalidPath(path string) error {
	return errx.New(
		fmt.Sprintf("path %q is outside of the store root", path),
		errx.WithCode(CodeInvalidPath),
		errx.WithType(errx.T_Validation),
	)
}

// IsNotFound reports whether err was raised for a missing file.
func IsNotFound(err error) bool {
	return errx.IsCodeIn(err, CodeFileNotFound)
}

// CleanPath normalizes a slash separated store path and rejects empty, absolute
// and root escaping paths with INVALID_FILE_PATH.
func CleanPath(p string) (string, error) {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return "", ErrInvalidPath(p)
	}
	clean := path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidPath(p)
	}
	return clean, nil
}
