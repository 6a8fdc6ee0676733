package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sqlgen/internal/config"
	"sqlgen/internal/domain"
	"sqlgen/internal/metadata"
	"sqlgen/internal/service"
	"sqlgen/internal/storage"
)

// app holds the settings resolved from flags, environment and profile, and
// the lazily loaded generator.
type app struct {
	metadata string
	output   string
	profile  string
	modeName string

	mode   domain.Mode
	cfg    *config.Config
	logger *slog.Logger
	gen    *service.Generator
}

// init applies precedence flag > env > profile > default and sets up logging.
func (a *app) init(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.cfg = cfg

	p := loadUserConfigOrEmpty().ActiveProfile(a.profile)
	resolve(cmd, "metadata", &a.metadata, "SQLGEN_METADATA", p.Metadata)
	resolve(cmd, "mode", &a.modeName, "SQLGEN_MODE", p.Mode)
	resolve(cmd, "output", &a.output, "SQLGEN_OUTPUT", p.Output)

	if err := validateOutputFormat(a.output); err != nil {
		return err
	}
	mode, err := domain.ParseMode(a.modeName)
	if err != nil {
		return err
	}
	a.mode = mode

	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	for _, w := range cfg.Warnings {
		a.logger.Warn(w)
	}
	return nil
}

func resolve(cmd *cobra.Command, flag string, val *string, env, profileVal string) {
	if cmd.Flags().Changed(flag) {
		return
	}
	if v := os.Getenv(env); v != "" {
		*val = v
		return
	}
	if profileVal != "" {
		*val = profileVal
	}
}

func (a *app) loader() *metadata.Loader {
	return &metadata.Loader{Fetcher: storage.NewRouter(a.cfg.StorageOptions())}
}

// catalog loads the metadata named by --metadata.
func (a *app) catalog(ctx context.Context) (*metadata.Catalog, error) {
	a.logger.Debug("loading metadata", "source", a.metadata)
	cat, err := a.loader().Open(ctx, a.metadata)
	if err != nil {
		return nil, fmt.Errorf("load metadata %s: %w", a.metadata, err)
	}
	return cat, nil
}

func (a *app) generator(ctx context.Context) (*service.Generator, error) {
	if a.gen != nil {
		return a.gen, nil
	}
	cat, err := a.catalog(ctx)
	if err != nil {
		return nil, err
	}
	a.gen = service.NewGenerator(cat, a.logger)
	return a.gen, nil
}

func (a *app) json() bool {
	return a.output == "json"
}
