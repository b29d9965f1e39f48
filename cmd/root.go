// Package cmd wires the tessera CLI: loading the configured store and
// exposing it through dump, schema, check, and serve.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentic-research/tessera/internal/config"
	"github.com/agentic-research/tessera/internal/docstore"
	"github.com/agentic-research/tessera/internal/parsing"
	"github.com/agentic-research/tessera/internal/schema"
)

var (
	configPath string
	rootFolder string
	debug      bool

	logger = zap.NewNop()
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "tessera.hcl", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&rootFolder, "root-folder", "", "Override the configured root folder")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

var rootCmd = &cobra.Command{
	Use:          "tessera",
	Short:        "Tessera: a queryable store of versioned personal records",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if debug {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loaded is the fully initialized, immutable state every subcommand works
// from.
type loaded struct {
	cfg       *config.Config
	loader    *parsing.Loader
	store     *parsing.Store
	records   []parsing.Record
	documents []docstore.Document
	schema    *schema.Schema
}

// loadConfig resolves the effective configuration. A missing config file is
// fine when --root-folder supplies the one required setting.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && rootFolder != "" {
			cfg = &config.Config{}
		} else {
			return nil, err
		}
	}
	if rootFolder != "" {
		cfg.RootFolder = rootFolder
	}
	if cfg.RootFolder == "" {
		return nil, fmt.Errorf("no root folder: set root_folder in %s or pass --root-folder", configPath)
	}
	return cfg, nil
}

// loadStore loads the configuration and definitions, enough for commands
// that only need the schema side of the store.
func loadStore() (*config.Config, *parsing.Loader, *parsing.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	loader := parsing.NewLoader(logger)
	store, diags := loader.LoadDefinitions(filepath.Join(cfg.RootFolder, "definitions"))
	if diags.HasErrors() {
		return nil, nil, nil, diagnosticsError(loader, diags)
	}
	return cfg, loader, store, nil
}

// loadAll performs the full sequential, fail-fast startup: config,
// definitions, records, then document snapshots when a source is configured.
func loadAll(ctx context.Context) (*loaded, error) {
	cfg, loader, store, err := loadStore()
	if err != nil {
		return nil, err
	}

	records, diags := loader.LoadRecords(cfg.RootFolder, store)
	if diags.HasErrors() {
		return nil, diagnosticsError(loader, diags)
	}

	var documents []docstore.Document
	if d := cfg.Documents; d != nil {
		documents, err = fetchDocuments(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("fetching document snapshots: %w", err)
		}
		logger.Debug("fetched document snapshots", zap.Int("count", len(documents)))
	}

	return &loaded{
		cfg:       cfg,
		loader:    loader,
		store:     store,
		records:   records,
		documents: documents,
		schema:    schema.Synthesize(store),
	}, nil
}

func fetchDocuments(ctx context.Context, d *config.Documents) ([]docstore.Document, error) {
	if d.Archive != "" {
		archive, err := docstore.OpenArchive(d.Archive)
		if err != nil {
			return nil, err
		}
		defer archive.Close()
		return archive.List(ctx)
	}
	return docstore.NewClient(d.URL, d.Token).List(ctx)
}

// diagnosticsError renders the diagnostics with their source excerpts to
// stderr and returns a terse error for cobra.
func diagnosticsError(loader *parsing.Loader, diags hcl.Diagnostics) error {
	wr := hcl.NewDiagnosticTextWriter(os.Stderr, loader.Files(), 100, true)
	_ = wr.WriteDiagnostics(diags)
	return errors.New("loading failed")
}
