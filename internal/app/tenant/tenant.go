// Package tenant derives the isolation boundary of a request from the host
// it was served on. The resulting Context is built once per inbound request
// and threaded explicitly; nothing downstream re-reads headers.
package tenant

import (
	"context"
	"strings"
)

type Mode int

const (
	// Strict scopes every read and write to the resolved tenant.
	Strict Mode = iota
	// Permissive bypasses tenant filtering on reads. It exists for local
	// and preview deployments that lack per-tenant data; it is a
	// development convenience, not a security boundary.
	Permissive
)

func (m Mode) String() string {
	if m == Permissive {
		return "permissive"
	}
	return "strict"
}

type Context struct {
	ID   string
	Mode Mode
}

// Options configures host classification.
type Options struct {
	// PreviewSuffix marks preview-deployment hosts as permissive, e.g.
	// ".vercel.app".
	PreviewSuffix string
	// Default is used when no host header is present.
	Default string
}

// Resolve lowercases the serving host and uses it verbatim as the tenant
// key. Local and preview hosts resolve in Permissive mode.
func Resolve(host string, opts Options) Context {
	id := strings.ToLower(strings.TrimSpace(host))
	if id == "" {
		id = opts.Default
		if id == "" {
			id = "default"
		}
	}
	mode := Strict
	if strings.Contains(id, "localhost") ||
		strings.HasPrefix(id, "127.0.0.1") ||
		(opts.PreviewSuffix != "" && strings.HasSuffix(id, opts.PreviewSuffix)) {
		mode = Permissive
	}
	return Context{ID: id, Mode: mode}
}

type contextKey struct{}

func WithContext(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// FromContext returns the tenant stashed on the request context, falling
// back to a strict "default" tenant when none was resolved.
func FromContext(ctx context.Context) Context {
	if v := ctx.Value(contextKey{}); v != nil {
		if tc, ok := v.(Context); ok {
			return tc
		}
	}
	return Context{ID: "default", Mode: Strict}
}
