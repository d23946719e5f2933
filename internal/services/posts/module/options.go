package module

import (
	"strings"
	"time"

	"postcraft/internal/core/selector"
	"postcraft/internal/platform/config"
	"postcraft/internal/services/posts/service"
)

// Store backends
const (
	StorePG     = "pg"
	StoreMemory = "memory"
)

// Options controls storage and example selection
type Options struct {
	Store       string
	AutoMigrate bool
	// SeedFile is a YAML document loaded into the memory store at boot
	SeedFile string
	// StatementTimeout caps each statement of a pg transaction; zero leaves the server default
	StatementTimeout time.Duration

	MaxExamples        int
	ExamplePool        int
	ExampleTokenBudget int
	IncludeFallback    bool
	SupportedPlatforms []string
}

// FromConfig reads CORE_POSTS_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	pc := cfg.Prefix("CORE_POSTS_")
	return Options{
		Store:              strings.ToLower(pc.MayEnum("STORE", StorePG, StorePG, StoreMemory)),
		AutoMigrate:        pc.MayBool("AUTO_MIGRATE", false),
		SeedFile:           pc.MayString("SEED_FILE", ""),
		StatementTimeout:   pc.MayDuration("STATEMENT_TIMEOUT", 30*time.Second),
		MaxExamples:        pc.MayPositiveInt("MAX_EXAMPLES", selector.DefaultMaxCount),
		ExamplePool:        pc.MayPositiveInt("EXAMPLE_POOL", 100),
		ExampleTokenBudget: pc.MayPositiveInt("EXAMPLE_TOKEN_BUDGET", selector.DefaultTokenBudget),
		IncludeFallback:    pc.MayBool("INCLUDE_FALLBACK", true),
		SupportedPlatforms: pc.MayCSV("SUPPORTED_PLATFORMS", []string{"linkedin"}),
	}
}

func (o Options) serviceConfig() service.Config {
	return service.Config{
		MaxExamples:        o.MaxExamples,
		ExamplePool:        o.ExamplePool,
		ExampleTokenBudget: o.ExampleTokenBudget,
		IncludeFallback:    o.IncludeFallback,
		SupportedPlatforms: o.SupportedPlatforms,
	}
}
