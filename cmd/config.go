package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/gg-guard/gg/internal/config"
	"github.com/gg-guard/gg/internal/policy"
)

// dumpConfig prints the effective configuration and where it came from.
func (a *app) dumpConfig(format string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	out, err := config.Marshal(cfg, format)
	if err != nil {
		return err
	}

	source := cfg.Path
	if source == "" {
		source = "defaults (no config file found)"
	}
	fmt.Fprintf(a.stderr, "[gg] config loaded from %s\n", source)
	_, err = a.stdout.Write(out)
	return err
}

// initConfig writes a starter config, leaving an existing file alone.
func (a *app) initConfig(path string) error {
	written, err := config.WriteDefault(path)
	if errors.Is(err, config.ErrExists) {
		fmt.Fprintf(a.stderr, "[gg] config already exists at %s, not overwriting\n", written)
		return nil
	}
	if err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	fmt.Fprintf(a.stderr, "[gg] wrote default config to %s\n", written)
	return nil
}

func loadOverlay(ctx context.Context, path string) (*policy.Overlay, error) {
	o, err := policy.LoadOverlay(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading rego_policy: %w", err)
	}
	return o, nil
}
