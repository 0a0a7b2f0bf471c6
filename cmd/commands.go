package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/config"
	"github.com/siahsang/postfeed/internal/database"
	"github.com/siahsang/postfeed/internal/validator"
	"github.com/siahsang/postfeed/models"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type cliOptions struct {
	configPath string
}

func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "postfeed",
		Short:         "Community blogging server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")

	rootCmd.AddCommand(
		serveCmd(opts),
		migrateCmd(opts),
		groupCmd(opts),
		cacheCmd(opts),
	)
	return rootCmd
}

func (opts *cliOptions) load() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}
	return cfg, configLogger(cfg.Env), nil
}

// withDatabase loads the configuration, opens the database and hands both to fn.
func (opts *cliOptions) withDatabase(ctx context.Context, fn func(cfg config.Config, logger *slog.Logger, db *gorm.DB) error) error {
	cfg, logger, err := opts.load()
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("Errors closing database connection", "error", err)
		}
	}()

	return fn(cfg, logger, db)
}

func serveCmd(opts *cliOptions) *cobra.Command {
	var port int
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDatabase(cmd.Context(), func(cfg config.Config, logger *slog.Logger, db *gorm.DB) error {
				if cmd.Flags().Changed("port") {
					cfg.Port = port
				}
				if migrate {
					if err := database.Migrate(cmd.Context(), db); err != nil {
						return err
					}
				}

				pageCache, closeCache, err := openPageCache(cfg)
				if err != nil {
					return err
				}
				defer func() { _ = closeCache() }()

				app, err := newApplication(cfg, logger, db, pageCache)
				if err != nil {
					return err
				}

				logger.Info("Starting application...", "env", cfg.Env, "cache", cfg.Cache.Backend)
				return app.serve(cmd.Context())
			})
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "override the configured listen port")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply schema migrations before serving")
	return cmd
}

func migrateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDatabase(cmd.Context(), func(_ config.Config, logger *slog.Logger, db *gorm.DB) error {
				if err := database.Migrate(cmd.Context(), db); err != nil {
					return err
				}
				logger.Info("Schema is up to date")
				return nil
			})
		},
	}
}

func groupCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage groups",
	}

	var title, description string
	createCmd := &cobra.Command{
		Use:   "create <slug>",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group := &models.Group{
				Slug:        strings.TrimSpace(args[0]),
				Title:       strings.TrimSpace(title),
				Description: strings.TrimSpace(description),
			}

			v := validator.New()
			checkGroup(v, group)
			if !v.IsValid() {
				return xerrors.Newf("invalid group: %v", v.Errors)
			}

			return opts.withDatabase(cmd.Context(), func(cfg config.Config, logger *slog.Logger, db *gorm.DB) error {
				app, err := newApplication(cfg, logger, db, nil)
				if err != nil {
					return err
				}
				if _, err := app.core.CreateGroup(cmd.Context(), group); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created group %s\n", group.Slug)
				return nil
			})
		},
	}
	createCmd.Flags().StringVar(&title, "title", "", "group title")
	createCmd.Flags().StringVar(&description, "description", "", "group description")
	_ = createCmd.MarkFlagRequired("title")

	deleteCmd := &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete a group, keeping its posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDatabase(cmd.Context(), func(cfg config.Config, logger *slog.Logger, db *gorm.DB) error {
				app, err := newApplication(cfg, logger, db, nil)
				if err != nil {
					return err
				}
				if err := app.core.DeleteGroup(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted group %s\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(createCmd, deleteCmd)
	return cmd
}

func cacheCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the feed page cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every cached feed page",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend != config.CacheRedis {
				logger.Warn("The memory cache lives inside the server process; nothing to clear")
				return nil
			}

			pageCache, closeCache, err := openPageCache(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeCache() }()

			if err := pageCache.InvalidateAll(cmd.Context()); err != nil {
				return err
			}
			logger.Info("Page cache cleared", "addr", cfg.Redis.Addr)
			return nil
		},
	})
	return cmd
}

func checkGroup(v *validator.Validator, group *models.Group) {
	v.CheckNotBlank(group.Slug, "slug", "must be provided")
	v.Check(v.IsMatch(group.Slug, validator.SlugRX), "slug", "must contain only letters, digits, hyphens or underscores")
	v.CheckNotBlank(group.Title, "title", "must be provided")
	v.CheckMaxChars(group.Title, 200, "title", "must not be more than 200 characters long")
}
