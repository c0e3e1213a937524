package imagefs

import (
	"strings"
	"time"

	"github.com/rise-and-shine/eventhub/imagefs/operations"
	"github.com/samber/lo"
)

// Config defines the tunables of the image asset pipeline.
type Config struct {
	// PublicDir is the store directory that holds the variant directories.
	PublicDir string `yaml:"public_dir" default:"public" validate:"required"`

	// AllowedExtensions lists accepted upload extensions, compared case-insensitively.
	AllowedExtensions []string `yaml:"allowed_extensions" default:"[\"jpg\",\"jpeg\",\"png\",\"heic\"]" validate:"required,min=1"`

	// MaxFileSize is the upload size ceiling in bytes. Default is 10 MiB.
	MaxFileSize int64 `yaml:"max_file_size" default:"10485760" validate:"gt=0"`

	// MiniatureWidth bounds the width of the miniature variant in pixels.
	MiniatureWidth int `yaml:"miniature_width" default:"200" validate:"gt=0"`

	// MiniatureQuality is the recompression quality of the miniature variant.
	MiniatureQuality int `yaml:"miniature_quality" default:"60" validate:"gte=0,lte=100"`

	// ProfileQuality is used for user profile images.
	ProfileQuality int `yaml:"profile_quality" default:"40" validate:"gte=0,lte=100"`

	// CoverQuality is used for event and activity cover images.
	CoverQuality int `yaml:"cover_quality" default:"50" validate:"gte=0,lte=100"`

	// DeriveTimeout bounds the derivation step. Zero means the request deadline alone applies.
	DeriveTimeout time.Duration `yaml:"derive_timeout" default:"0s"`

	// ReleaseAttempts is how many times a cleanup delete is tried before giving up.
	ReleaseAttempts uint `yaml:"release_attempts" default:"3" validate:"gte=1"`

	// ReleaseDelay is the base backoff between cleanup attempts.
	ReleaseDelay time.Duration `yaml:"release_delay" default:"50ms"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		PublicDir:         "public",
		AllowedExtensions: []string{"jpg", "jpeg", "png", "heic"},
		MaxFileSize:       10 << 20,
		MiniatureWidth:    200,
		MiniatureQuality:  60,
		ProfileQuality:    40,
		CoverQuality:      50,
		ReleaseAttempts:   3,
		ReleaseDelay:      50 * time.Millisecond,
	}
}

func (c Config) gateConfig() operations.GateConfig {
	return operations.GateConfig{
		PublicDir: c.PublicDir,
		AllowedExtensions: lo.Uniq(lo.Map(c.AllowedExtensions, func(ext string, _ int) string {
			return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		})),
		MaxFileSize: c.MaxFileSize,
	}
}

func (c Config) deriveConfig() operations.DeriveConfig {
	return operations.DeriveConfig{
		MiniatureWidth:   c.MiniatureWidth,
		MiniatureQuality: c.MiniatureQuality,
	}
}
