// Package domain holds the gateway contracts shared by callers of the provider
package domain

import "postcraft/internal/core/ratelimit"

// Request is one completion call
// zero MaxTokens or a nil Temperature use the configured defaults
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature *float64
}

// Usage is the token accounting of one completion
type Usage struct {
	PromptTokens     int `json:"prompt_tokens" example:"812"`
	CompletionTokens int `json:"completion_tokens" example:"230"`
	TotalTokens      int `json:"total_tokens" example:"1042"`
}

// Completion is a successful provider answer
type Completion struct {
	Text     string
	Usage    Usage
	Provider string
	Model    string
}

// Status is the remaining quota of the current window
type Status = ratelimit.Status

// Temp returns a pointer to t for Request.Temperature
func Temp(t float64) *float64 { return &t }
