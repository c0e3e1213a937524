package filestore

import (
	"mime"
	"path"
	"strings"
)

// MIME content types of stored assets.
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeHEIC = "image/heic"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"

	ContentTypeOctetStream = "application/octet-stream"
)

//nolint:gochecknoglobals // static lookup table
var extContentTypes = map[string]string{
	"jpg":  ContentTypeJPEG,
	"jpeg": ContentTypeJPEG,
	"png":  ContentTypePNG,
	"heic": ContentTypeHEIC,
	"gif":  ContentTypeGIF,
	"webp": ContentTypeWebP,
}

// Ext returns the lowercased extension of name without the leading dot.
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

// ContentTypeByExtension resolves the content type of a file name or bare extension.
// Unknown extensions fall back to the system MIME table and then to octet-stream.
func ContentTypeByExtension(name string) string {
	ext := Ext(name)
	if ext == "" {
		ext = strings.ToLower(strings.TrimPrefix(name, "."))
	}
	if ct, ok := extContentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension("." + ext); ct != "" {
		return ct
	}
	return ContentTypeOctetStream
}

// IsGeneric reports whether ct carries no useful type information.
func IsGeneric(ct string) bool {
	ct = strings.TrimSpace(strings.ToLower(ct))
	return ct == "" || ct == ContentTypeOctetStream
}
