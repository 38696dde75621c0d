package auditlog

import (
	"context"
	"sync"
)

// Metadata names the resource a tool invocation acted on.
type Metadata struct {
	ResourceType string
	ResourceID   string
	ResourceName string
}

type metadataKey struct{}

type holder struct {
	mu   sync.Mutex
	meta Metadata
}

// WithMetadata returns a context that collects metadata annotated further
// down the call chain, seeded with meta.
func WithMetadata(ctx context.Context, meta Metadata) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, metadataKey{}, &holder{meta: meta})
}

// Annotate merges meta into the metadata collected by ctx. Empty fields do
// not overwrite earlier values. It is a no-op on a context without a
// collector.
func Annotate(ctx context.Context, meta Metadata) {
	if ctx == nil {
		return
	}
	h, ok := ctx.Value(metadataKey{}).(*holder)
	if !ok {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.meta = Metadata{
		ResourceType: pick(meta.ResourceType, h.meta.ResourceType),
		ResourceID:   pick(meta.ResourceID, h.meta.ResourceID),
		ResourceName: pick(meta.ResourceName, h.meta.ResourceName),
	}
}

// MetadataFromContext returns the metadata collected so far.
func MetadataFromContext(ctx context.Context) Metadata {
	if ctx == nil {
		return Metadata{}
	}
	h, ok := ctx.Value(metadataKey{}).(*holder)
	if !ok {
		return Metadata{}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.meta
}

func pick(next, fallback string) string {
	if next != "" {
		return next
	}
	return fallback
}
