// Package ref encodes and decodes asset references.
//
// A reference is a single string of the form "<mime-type>:<path>" where path
// always locates the compressed variant of an image. Sibling variants are
// reached by swapping the variant directory that is the parent of the file.
package ref

import (
	"path"
	"strings"

	"github.com/rise-and-shine/eventhub/imagefs/types"
)

// Delimiter separates the MIME type from the path.
const Delimiter = ":"

// Ref is a decoded asset reference.
type Ref struct {
	MimeType string
	Path     string
}

// New builds a validated reference. Neither part may be empty or contain the delimiter.
func New(mimeType, p string) (Ref, error) {
	r := Ref{MimeType: mimeType, Path: p}
	if err := r.validate(); err != nil {
		return Ref{}, err
	}
	return r, nil
}

// Parse splits s on the first delimiter.
func Parse(s string) (Ref, error) {
	mimeType, p, ok := strings.Cut(s, Delimiter)
	if !ok {
		return Ref{}, types.NewInvalidReference("reference has no delimiter", s)
	}
	return New(mimeType, p)
}

// String returns the encoded form.
func (r Ref) String() string {
	return r.MimeType + Delimiter + r.Path
}

// Variant returns r with its path moved to the target variant.
func (r Ref) Variant(target types.Variant) Ref {
	return Ref{MimeType: r.MimeType, Path: VariantPath(r.Path, target)}
}

func (r Ref) validate() error {
	switch {
	case r.MimeType == "":
		return types.NewInvalidReference("reference mime type is empty", r.String())
	case r.Path == "":
		return types.NewInvalidReference("reference path is empty", r.String())
	case strings.Contains(r.MimeType, Delimiter):
		return types.NewInvalidReference("reference mime type contains the delimiter", r.String())
	case strings.Contains(r.Path, Delimiter):
		return types.NewInvalidReference("reference path contains the delimiter", r.String())
	}
	return nil
}

// Encode joins a MIME type and a path into a reference string.
func Encode(mimeType, p string) (string, error) {
	r, err := New(mimeType, p)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

// Decode splits a reference string into its MIME type and path.
func Decode(s string) (string, string, error) {
	r, err := Parse(s)
	if err != nil {
		return "", "", err
	}
	return r.MimeType, r.Path, nil
}

// VariantPath rewrites p to point at the target variant.
// The parent directory of the file must be a variant token; otherwise p is returned unchanged.
// No filesystem access is performed.
func VariantPath(p string, target types.Variant) string {
	dir, file := path.Split(p)
	if file == "" {
		return p
	}

	parentDir := strings.TrimSuffix(dir, "/")
	grandDir, parent := path.Split(parentDir)
	if !types.Variant(parent).Valid() {
		return p
	}

	return grandDir + string(target) + "/" + file
}
