package core

import "context"

type headerKey struct{}

// WithSuppressHeader marks the context so ExecuteExtract prints no banner.
// The MCP server needs this because stdout carries the protocol.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, headerKey{}, true)
}

func shouldSuppressHeader(ctx context.Context) bool {
	suppress, _ := ctx.Value(headerKey{}).(bool)
	return suppress
}
