// Package net carries request identity on the context for the http layers
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey struct{}

var keyOwner ctxKey

// WithRequest stores the request id where chi's RequestID middleware would and the owner next to it
func WithRequest(ctx context.Context, reqID, ownerID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	return WithOwner(ctx, ownerID)
}

// WithOwner marks ctx as acting for ownerID; every artifact read and write is scoped to it
func WithOwner(ctx context.Context, ownerID string) context.Context {
	if ownerID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyOwner, ownerID)
}

// RequestID returns the chi request id, empty when none was assigned
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// OwnerID returns the authenticated owner, empty for anonymous requests
func OwnerID(ctx context.Context) string {
	s, _ := ctx.Value(keyOwner).(string)
	return s
}
