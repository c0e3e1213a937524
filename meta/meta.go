// Package meta provides functionality for managing request metadata through context.
package meta

import (
	"context"
	"fmt"

	"github.com/code19m/errx"
)

// ContextKey is a type for keys used in context values for metadata.
type ContextKey string

const (
	// TraceID represents a unique identifier for tracing requests across services.
	TraceID ContextKey = "trace_id"

	// ActorType indicates the kind of principal making the request.
	ActorType ContextKey = "actor_type"

	// ActorID identifies the principal making the request.
	ActorID ContextKey = "actor_id"

	// CompanyID is the tenant every query of the request is scoped to.
	CompanyID ContextKey = "company_id"

	// IPAddress contains the client's IP address.
	IPAddress ContextKey = "ip_address"

	// UserAgent contains the user agent string from the request.
	UserAgent ContextKey = "user_agent"

	// RemoteAddr contains the network address that sent the request.
	RemoteAddr ContextKey = "remote_addr"

	// Referer contains the address of the previous web page from which a link was followed.
	Referer ContextKey = "referer"

	// ServiceName identifies the name of current running service.
	ServiceName ContextKey = "service_name"

	// ServiceVersion indicates the version of the service.
	ServiceVersion ContextKey = "service_version"

	// AcceptLanguage indicates the natural language and locale that the client prefers.
	AcceptLanguage ContextKey = "accept-language"
)

const (
	codeMetaNotFound     = "META_NOT_FOUND"
	codeMetaTypeMismatch = "META_TYPE_MISMATCH"
)

//nolint:gochecknoglobals // fixed list of keys propagated through logs
var allKeys = []ContextKey{
	TraceID,
	ActorType,
	ActorID,
	CompanyID,
	IPAddress,
	UserAgent,
	RemoteAddr,
	Referer,
	ServiceName,
	ServiceVersion,
	AcceptLanguage,
}

// InjectMetaToContext adds metadata from the provided map to the context.
// Empty values are skipped.
func InjectMetaToContext(ctx context.Context, data map[ContextKey]string) context.Context {
	for k, v := range data {
		if v != "" {
			ctx = context.WithValue(ctx, k, v) //nolint:fatcontext // allow due to finite number of keys
		}
	}
	return ctx
}

// ExtractMetaFromContext extracts all known metadata from the context.
// Only non-empty string values are included in the returned map.
func ExtractMetaFromContext(ctx context.Context) map[ContextKey]string {
	data := make(map[ContextKey]string)
	for _, k := range allKeys {
		if v, ok := ctx.Value(k).(string); ok && v != "" {
			data[k] = v
		}
	}
	return data
}

// Find returns the value stored under key, or an empty string.
func Find(ctx context.Context, key ContextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

// ShouldGetMeta returns the value stored under key or an error when it is missing or not a string.
func ShouldGetMeta(ctx context.Context, key ContextKey) (string, error) {
	raw := ctx.Value(key)
	if raw == nil {
		return "", errx.New(
			fmt.Sprintf("meta key not found: %s", key),
			errx.WithCode(codeMetaNotFound),
		)
	}

	v, ok := raw.(string)
	if !ok {
		return "", errx.New(
			fmt.Sprintf("meta type mismatch for key %s: got %T", key, raw),
			errx.WithCode(codeMetaTypeMismatch),
		)
	}
	return v, nil
}
