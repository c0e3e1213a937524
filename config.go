package main

import (
	"time"

	"github.com/rise-and-shine/eventhub/filestore/localfs"
	"github.com/rise-and-shine/eventhub/filestore/miniowr"
	"github.com/rise-and-shine/eventhub/http/server"
	"github.com/rise-and-shine/eventhub/imagefs"
	"github.com/rise-and-shine/eventhub/logger"
	"github.com/rise-and-shine/eventhub/pg"
	"github.com/rise-and-shine/eventhub/tracing"
)

const (
	backendLocal = "local"
	backendMinio = "minio"
)

// Config is the configuration of the eventhub service, read from ./config/${ENVIRONMENT}.yaml.
type Config struct {
	ServiceName string `yaml:"service_name" default:"eventhub"`

	Server   server.Config  `yaml:"server"`
	Logger   logger.Config  `yaml:"logger"`
	Postgres pg.Config      `yaml:"postgres"`
	Storage  StorageConfig  `yaml:"storage"`
	Assets   imagefs.Config `yaml:"assets"`
	Auth     AuthConfig     `yaml:"auth"`
	Tracing  tracing.Config `yaml:"tracing"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// StorageConfig selects where image files are kept.
type StorageConfig struct {
	Backend string          `yaml:"backend" default:"local" validate:"oneof=local minio"`
	Local   localfs.Config  `yaml:"local"`
	Minio   *miniowr.Config `yaml:"minio" validate:"required_if=Backend minio"`
}

// AuthConfig describes how access tokens are verified.
type AuthConfig struct {
	Secret string        `yaml:"secret" validate:"required,min=16" mask:"true"`
	Issuer string        `yaml:"issuer"`
	Leeway time.Duration `yaml:"leeway" default:"30s"`
}

// MetricsConfig exposes Prometheus metrics on a separate listener.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"false"`
	Address string `yaml:"address" default:":9090"    validate:"required_if=Enabled true"`
	Path    string `yaml:"path"    default:"/metrics" validate:"startswith=/"`
}
