package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-academy-cms/internal/di"
	"github.com/goliatone/go-academy-cms/internal/runtimeconfig"
)

const envPrefix = "ACADEMY"

type cli struct {
	cfgFile string
	viper   *viper.Viper
	config  runtimeconfig.Config
	options []di.Option
}

func newRootCommand(opts ...di.Option) *cobra.Command {
	app := &cli{viper: viper.New(), options: opts}

	root := &cobra.Command{
		Use:   "academy",
		Short: "Accounting academy CMS",
		Long: `academy serves the public site and JSON APIs, and manages the content
behind them. Configuration is read from a YAML file and ACADEMY_* environment
variables (ACADEMY_STORAGE_DSN, ACADEMY_LOGGING_LEVEL, ...).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.initializeConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.cfgFile, "config", "", "config file (default is ./academy.yaml when present)")
	flags.String("dsn", "", "storage dsn, overrides storage.dsn")
	flags.String("log-level", "", "log level, overrides logging.level")
	_ = app.viper.BindPFlag("storage.dsn", flags.Lookup("dsn"))
	_ = app.viper.BindPFlag("logging.level", flags.Lookup("log-level"))

	root.AddCommand(
		newServeCommand(app),
		newSeedCommand(app),
		newImportCommand(app),
		newExpandCommand(app),
		newInvalidateCacheCommand(app),
		newRunJobCommand(app),
	)
	return root
}

func (app *cli) initializeConfig() error {
	v := app.viper
	setDefaults(v, runtimeconfig.DefaultConfig())

	if app.cfgFile != "" {
		v.SetConfigFile(app.cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("academy")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || app.cfgFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
	}

	cfg := runtimeconfig.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	app.config = cfg
	return nil
}

func (app *cli) container(cmd *cobra.Command) (*di.Container, error) {
	opts := append([]di.Option{di.WithLogWriter(cmd.ErrOrStderr())}, app.options...)
	return di.NewContainer(app.config, opts...)
}

// setDefaults registers every scalar key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, cfg runtimeconfig.Config) {
	defaults := map[string]any{
		"storage.driver":            cfg.Storage.Driver,
		"storage.dsn":               cfg.Storage.DSN,
		"storage.debug":             cfg.Storage.Debug,
		"storage.create_schema":     cfg.Storage.CreateSchema,
		"cache.enabled":             cfg.Cache.Enabled,
		"cache.default_ttl":         cfg.Cache.DefaultTTL,
		"sitemap.source":            cfg.Sitemap.Source,
		"sitemap.post_limit":        cfg.Sitemap.PostLimit,
		"sitemap.recent_posts":      cfg.Sitemap.RecentPosts,
		"sitemap.allowed_schemes":   cfg.Sitemap.AllowedSchemes,
		"sitemap.fetch_timeout":     cfg.Sitemap.FetchTimeout,
		"navigation.group":          cfg.Navigation.Group,
		"http.address":              cfg.HTTP.Address,
		"http.public_api_base":      cfg.HTTP.PublicAPIBase,
		"http.admin_api_base":       cfg.HTTP.AdminAPIBase,
		"http.public_api_url":       cfg.HTTP.PublicAPIURL,
		"http.read_timeout":         cfg.HTTP.ReadTimeout,
		"http.write_timeout":        cfg.HTTP.WriteTimeout,
		"logging.provider":          cfg.Logging.Provider,
		"logging.level":             cfg.Logging.Level,
		"logging.format":            cfg.Logging.Format,
		"logging.add_source":        cfg.Logging.AddSource,
		"metrics.enabled":           cfg.Metrics.Enabled,
		"metrics.namespace":         cfg.Metrics.Namespace,
		"metrics.path":              cfg.Metrics.Path,
		"markdown.content_dir":      cfg.Markdown.ContentDir,
		"markdown.pattern":          cfg.Markdown.Pattern,
		"markdown.recursive":        cfg.Markdown.Recursive,
		"markdown.default_category": cfg.Markdown.DefaultCategory,
		"jobs.cache_invalidation":   cfg.Jobs.CacheInvalidation,
		"jobs.markdown_import":      cfg.Jobs.MarkdownImport,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}
