package main

import (
	"context"

	"github.com/fairyhunter13/resumeiq/internal/config"
)

type configKey struct{}

func withConfig(ctx context.Context, cfg config.Config) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFrom returns the loaded config, or one parsed from the environment
// when the root pre-run did not execute.
func configFrom(ctx context.Context) (config.Config, error) {
	if ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(config.Config); ok {
			return cfg, nil
		}
	}
	return config.Load()
}
