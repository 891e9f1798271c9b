package service

import "context"

type AuditEntry struct {
	ResourceType string
	ResourceID   string
	Changes      string
}

// RequestMeta identifies the HTTP request a service call belongs to.
type RequestMeta struct {
	RequestID string
	IPAddress string
}

type requestMetaKey struct{}

func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

func RequestMetaFrom(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}
