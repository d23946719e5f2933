// Package config reads settings from the environment through prefixed views
// modules take the unprefixed root and narrow it, e.g. root.Prefix("CORE_POSTS_")
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"postcraft/internal/platform/logger"
)

// Conf is a prefixed view over the environment
type Conf struct{ prefix string }

// New returns the unprefixed root view
func New() Conf { return Conf{} }

// Prefix narrows the view; prefixes stack
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// may parses the value under k, falling back to def when unset or unparsable
func may[T any](c Conf, k string, def T, parse func(string) (T, error)) T {
	s := c.lookup(k)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(k)).Str("value", s).Interface("default", def).Msg("invalid config value; using default")
		return def
	}
	return v
}

// MayString returns the trimmed value or def
func (c Conf) MayString(k, def string) string {
	if s := c.lookup(k); s != "" {
		return s
	}
	return def
}

// MayInt returns the integer value or def
func (c Conf) MayInt(k string, def int) int { return may(c, k, def, strconv.Atoi) }

// MayPositiveInt is MayInt that also rejects values below 1
func (c Conf) MayPositiveInt(k string, def int) int {
	return may(c, k, def, func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err == nil && n < 1 {
			err = strconv.ErrRange
		}
		return n, err
	})
}

// MayFloat64 returns the float value or def
func (c Conf) MayFloat64(k string, def float64) float64 {
	return may(c, k, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool returns the bool value or def; yes and no are accepted next to strconv's forms
func (c Conf) MayBool(k string, def bool) bool {
	return may(c, k, def, func(s string) (bool, error) {
		switch strings.ToLower(s) {
		case "yes", "y", "on":
			return true, nil
		case "no", "n", "off":
			return false, nil
		}
		return strconv.ParseBool(s)
	})
}

// MayDuration returns a time.ParseDuration value or def
func (c Conf) MayDuration(k string, def time.Duration) time.Duration {
	return may(c, k, def, time.ParseDuration)
}

// MayCSV splits a comma separated value, dropping blanks; def when nothing is left
func (c Conf) MayCSV(k string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.lookup(k), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the value when it is one of allowed, ignoring case
// an unknown value is a deployment error and panics
func (c Conf) MayEnum(k, def string, allowed ...string) string {
	v := c.MayString(k, def)
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return v
		}
	}
	if v == "" {
		return v
	}
	logger.Get().Panic().Str("key", c.key(k)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}

// MayPairs parses "k1:v1,k2:v2" into a map; malformed entries are skipped with a warning
func (c Conf) MayPairs(k string) map[string]string {
	out := map[string]string{}
	for _, item := range c.MayCSV(k, nil) {
		name, val, ok := strings.Cut(item, ":")
		name, val = strings.TrimSpace(name), strings.TrimSpace(val)
		if !ok || name == "" || val == "" {
			logger.Get().Warn().Str("key", c.key(k)).Msg("malformed pair; expected key:value")
			continue
		}
		out[name] = val
	}
	return out
}
