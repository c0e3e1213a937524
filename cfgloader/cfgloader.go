// Package cfgloader reads the service configuration from ./config/${ENVIRONMENT}.yaml.
//
// Loading runs in fixed steps: .env is loaded, ${VAR} and ${VAR:-fallback} references
// in the file are expanded from the environment, the yaml is decoded, `default` tags
// fill unset fields and `validate` tags are checked. Fields tagged `mask:"true"` are
// hidden when the result is printed.
package cfgloader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvProduction = "production"
	EnvStaging    = "staging"
	EnvDev        = "dev"
	EnvLocal      = "local"
	EnvTest       = "test"

	envVar = "ENVIRONMENT"
)

const (
	CodeInvalidEnvironment = "INVALID_ENVIRONMENT"
	CodeConfigNotFound     = "CONFIG_NOT_FOUND"
	CodeInvalidConfig      = "INVALID_CONFIG"
)

//nolint:gochecknoglobals // fixed set
var environments = []string{EnvProduction, EnvStaging, EnvDev, EnvLocal, EnvTest}

// MustLoad is Load that logs the error and exits the process.
func MustLoad[T any](opts ...Option) T {
	cfg, err := Load[T](opts...)
	if err != nil {
		slog.Error("[cfgloader]: " + err.Error())
		os.Exit(1)
	}
	return cfg
}

// Load reads and validates a T, which must be a struct type, not a pointer.
func Load[T any](opts ...Option) (T, error) {
	var cfg T
	if reflect.TypeFor[T]().Kind() == reflect.Pointer {
		return cfg, errx.New("config type must not be a pointer", errx.WithCode(CodeInvalidConfig))
	}

	o := Options{Dir: "./config"}
	for _, opt := range opts {
		opt(&o)
	}

	_ = godotenv.Load()

	env, err := environment(o.Environment)
	if err != nil {
		return cfg, err
	}

	raw, err := readFile(filepath.Join(o.Dir, env+".yaml"))
	if err != nil {
		return cfg, err
	}

	if err = yaml.Unmarshal(expandEnv(raw), &cfg); err != nil {
		return cfg, errx.Wrap(err, errx.WithCode(CodeInvalidConfig), errx.WithDetails(errx.D{"environment": env}))
	}
	if err = defaults.Set(&cfg); err != nil {
		return cfg, errx.Wrap(err, errx.WithCode(CodeInvalidConfig))
	}
	if err = validate(&cfg, env); err != nil {
		return cfg, err
	}

	if !o.Silent {
		printConfig(cfg)
	}
	return cfg, nil
}

func environment(explicit string) (string, error) {
	env := explicit
	if env == "" {
		env = os.Getenv(envVar)
	}
	if !slices.Contains(environments, env) {
		return "", errx.New(
			fmt.Sprintf("%s must be one of %s, got %q", envVar, strings.Join(environments, ", "), env),
			errx.WithCode(CodeInvalidEnvironment),
		)
	}
	return env, nil
}

func readFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, errx.New("config file not found: "+path, errx.WithCode(CodeConfigNotFound))
	case err != nil:
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
	}
	return raw, nil
}

// expandEnv replaces ${VAR} with its value and ${VAR:-fallback} with the fallback
// when VAR is unset or empty.
func expandEnv(raw []byte) []byte {
	return []byte(os.Expand(string(raw), func(ref string) string {
		name, fallback, hasFallback := strings.Cut(ref, ":-")
		if v := os.Getenv(name); v != "" || !hasFallback {
			return v
		}
		return fallback
	}))
}

func validate(cfg any, env string) error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errx.Wrap(err, errx.WithCode(CodeInvalidConfig))
	}

	failed := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		failed = append(failed, fe.Namespace()+": "+rule)
	}
	return errx.New(
		fmt.Sprintf("invalid %s config: %s", env, strings.Join(failed, ", ")),
		errx.WithCode(CodeInvalidConfig),
	)
}
