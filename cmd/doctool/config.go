// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/pdiddy/doctool/internal/ledger"
	"github.com/pdiddy/doctool/internal/tool"
	"github.com/pdiddy/doctool/pkg/types"
)

// loadConfig reads the merged file, environment and default settings.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	cfg.Defaults()
	return cfg, nil
}

// openHistory opens the conversion ledger. It returns nil, and prints why,
// when the ledger is disabled or cannot be opened; tools run without it.
func openHistory(cfg types.Config) *ledger.Store {
	if cfg.Ledger.Disabled {
		return nil
	}
	store, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "History disabled: %v\n", err)
		return nil
	}
	return store
}

// record adds one entry to the ledger when it is open.
func record(ctx context.Context, store *ledger.Store, r types.Record) {
	if store == nil {
		return
	}
	if err := store.Record(ctx, r); err != nil {
		fmt.Fprintf(os.Stderr, "History not updated: %v\n", err)
	}
}

// locate finds a required external tool and aborts the command before any
// work starts when it is missing.
func locate(ctx context.Context, spec tool.Spec, override string) (tool.Tool, error) {
	t, err := tool.Locate(ctx, spec, override)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(os.Stderr, "Using %s: %s\n", t.Name(), t.Path())
	return t, nil
}
