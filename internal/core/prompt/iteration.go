package prompt

import (
	"strings"

	perr "postcraft/internal/platform/errors"
)

// IterationType picks a canned revision request or a custom one
type IterationType string

// Iteration types
const (
	Shorter      IterationType = "shorter"
	StrongerHook IterationType = "stronger_hook"
	MorePersonal IterationType = "more_personal"
	AddData      IterationType = "add_data"
	Simplify     IterationType = "simplify"
	Custom       IterationType = "custom"
)

var canned = map[IterationType]string{
	Shorter:      "Make the post about 30% shorter. Remove redundant lines and filler words while keeping the key message, the hook and the call to action.",
	StrongerHook: "Rewrite only the first one or two lines into a stronger hook that creates curiosity or tension. Keep the rest of the post unchanged.",
	MorePersonal: "Make the post more personal. Add a specific first-person detail or feeling where it fits, without changing the structure.",
	AddData:      "Support the main claim with a concrete number, result or specific observation. Add it where it strengthens the argument most.",
	Simplify:     "Simplify the language. Use shorter words and sentences and remove jargon so a newcomer to the topic can follow.",
}

// IterationTypes lists every accepted type
func IterationTypes() []IterationType {
	return []IterationType{Shorter, StrongerHook, MorePersonal, AddData, Simplify, Custom}
}

// ParseIterationType accepts a type name case-insensitively, with dashes or underscores
func ParseIterationType(s string) (IterationType, bool) {
	t := IterationType(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if t == Custom {
		return t, true
	}
	_, ok := canned[t]
	return t, ok
}

// ResolveInstruction turns a type and optional feedback into the modification request
// custom requires feedback; for canned types feedback is appended as extra notes
func ResolveInstruction(t IterationType, feedback string) (string, error) {
	feedback = strings.TrimSpace(feedback)
	if t == Custom {
		if feedback == "" {
			return "", perr.WithField(perr.Validationf("custom iteration requires feedback"), "feedback")
		}
		return feedback, nil
	}
	base, ok := canned[t]
	if !ok {
		return "", perr.WithField(perr.Validationf("unknown iteration type %q", t), "type")
	}
	if feedback == "" {
		return base, nil
	}
	return base + "\nAdditional notes: " + feedback, nil
}
