// Package httpkit is what modules use to mount routes; it re-exports the platform http types
package httpkit

import (
	"net/http"

	phttp "postcraft/internal/platform/net/http"
)

type (
	// Envelope is the body of every response
	Envelope = phttp.Envelope
	// Response is a return-style handler result
	Response = phttp.Response
	// Handler is the plain handler func
	Handler = phttp.Handler
	// Router is the routing seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Created returns a 201 response
func Created(data any) Response { return phttp.Created(data) }

// NoContent returns a 204 response
func NoContent() Response { return phttp.NoContent() }

// Error returns a response whose status comes from the error code
func Error(err error) Response { return phttp.Error(err) }

// Call adapts a body-less handler; a returned Response is written as is
func Call(fn func(*http.Request) (any, error)) Handler { return phttp.NoBodyHandler(fn) }
