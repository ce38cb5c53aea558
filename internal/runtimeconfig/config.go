package runtimeconfig

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
	"github.com/robfig/cron/v3"
)

var (
	ErrStorageDriverUnknown        = errors.New("academy config: storage driver must be sqlite or postgres")
	ErrStorageDSNRequired          = errors.New("academy config: storage dsn is required")
	ErrCacheTTLInvalid             = errors.New("academy config: cache ttl must be zero or positive")
	ErrSitemapSourceUnknown        = errors.New("academy config: sitemap source must be repository or http")
	ErrSitemapPostLimitInvalid     = errors.New("academy config: sitemap post limit must be positive")
	ErrSitemapRecentPostsInvalid   = errors.New("academy config: sitemap recent posts must be positive")
	ErrSitemapSchemesRequired      = errors.New("academy config: sitemap requires at least one allowed url scheme")
	ErrSitemapAPIURLRequired       = errors.New("academy config: http sitemap source requires http.public_api_url")
	ErrNavigationRouteConfigNeeded = errors.New("academy config: navigation routes require a route config")
	ErrHTTPAddressRequired         = errors.New("academy config: http address is required")
	ErrLoggingProviderRequired     = errors.New("academy config: logging provider is required")
	ErrLoggingProviderUnknown      = errors.New("academy config: logging provider is invalid")
	ErrLoggingLevelInvalid         = errors.New("academy config: logging level is invalid")
	ErrLoggingFormatInvalid        = errors.New("academy config: logging format is invalid")
	ErrJobScheduleInvalid          = errors.New("academy config: job schedule is not a valid cron spec")
)

// Config aggregates the adapter bindings for the academy runtime. Keys use
// snake_case so the same struct loads from YAML files and environment variables.
type Config struct {
	Storage    StorageConfig    `mapstructure:"storage"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Sitemap    SitemapConfig    `mapstructure:"sitemap"`
	Navigation NavigationConfig `mapstructure:"navigation"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Markdown   MarkdownConfig   `mapstructure:"markdown"`
	Jobs       JobsConfig       `mapstructure:"jobs"`
}

// StorageConfig selects the database driver and connection string.
type StorageConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	Debug        bool   `mapstructure:"debug"`
	CreateSchema bool   `mapstructure:"create_schema"`
}

// CacheConfig toggles the repository read cache.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
}

// SitemapConfig controls how the sitemap shortcode loads and renders data.
type SitemapConfig struct {
	// Source is either "repository" (direct storage access) or "http"
	// (the public JSON API, see HTTPConfig.PublicAPIURL).
	Source         string        `mapstructure:"source"`
	PostLimit      int           `mapstructure:"post_limit"`
	RecentPosts    int           `mapstructure:"recent_posts"`
	AllowedSchemes []string      `mapstructure:"allowed_schemes"`
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout"`
}

// NavigationConfig optionally routes sitemap links through go-urlkit.
type NavigationConfig struct {
	RouteConfig *urlkit.Config `mapstructure:"route_config"`
	Group       string         `mapstructure:"group"`
	Routes      SitemapRoutes  `mapstructure:"routes"`
}

// SitemapRoutes names the go-urlkit routes used for each link kind. Empty
// names fall back to the fixed paths.
type SitemapRoutes struct {
	Home     string `mapstructure:"home"`
	Blog     string `mapstructure:"blog"`
	Sitemap  string `mapstructure:"sitemap"`
	Page     string `mapstructure:"page"`
	Post     string `mapstructure:"post"`
	Category string `mapstructure:"category"`
}

// Enabled reports whether any route name was configured.
func (r SitemapRoutes) Enabled() bool {
	return r.Home != "" || r.Blog != "" || r.Sitemap != "" || r.Page != "" || r.Post != "" || r.Category != ""
}

// HTTPConfig configures the HTTP adapters.
type HTTPConfig struct {
	Address       string        `mapstructure:"address"`
	PublicAPIBase string        `mapstructure:"public_api_base"`
	AdminAPIBase  string        `mapstructure:"admin_api_base"`
	PublicAPIURL  string        `mapstructure:"public_api_url"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
}

// LoggingConfig selects the logger provider.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// MetricsConfig toggles the Prometheus collectors and exposition endpoint.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// MarkdownConfig drives the markdown post importer.
type MarkdownConfig struct {
	ContentDir      string `mapstructure:"content_dir"`
	Pattern         string `mapstructure:"pattern"`
	Recursive       bool   `mapstructure:"recursive"`
	DefaultCategory string `mapstructure:"default_category"`
}

// JobsConfig holds cron specs for the background jobs started by serve. An
// empty spec disables the job.
type JobsConfig struct {
	CacheInvalidation string `mapstructure:"cache_invalidation"`
	MarkdownImport    string `mapstructure:"markdown_import"`
}

// Enabled reports whether any job has a schedule.
func (j JobsConfig) Enabled() bool {
	return strings.TrimSpace(j.CacheInvalidation) != "" || strings.TrimSpace(j.MarkdownImport) != ""
}

// DefaultConfig returns the baseline configuration used by the CLI and tests.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Driver:       "sqlite",
			DSN:          "file:academy.db?cache=shared",
			CreateSchema: true,
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Sitemap: SitemapConfig{
			Source:         "repository",
			PostLimit:      1000,
			RecentPosts:    10,
			AllowedSchemes: []string{"http", "https", "mailto", "tel"},
			FetchTimeout:   5 * time.Second,
		},
		HTTP: HTTPConfig{
			Address:       ":8080",
			PublicAPIBase: "/api/public",
			AdminAPIBase:  "/admin/api",
			ReadTimeout:   15 * time.Second,
			WriteTimeout:  15 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "academy",
			Path:      "/metrics",
		},
		Markdown: MarkdownConfig{
			ContentDir: "content",
			Pattern:    "*.md",
			Recursive:  true,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	switch normalize(cfg.Storage.Driver) {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: %q", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if strings.TrimSpace(cfg.Storage.DSN) == "" {
		return ErrStorageDSNRequired
	}
	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}

	switch normalize(cfg.Sitemap.Source) {
	case "", "repository":
	case "http":
		if strings.TrimSpace(cfg.HTTP.PublicAPIURL) == "" {
			return ErrSitemapAPIURLRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrSitemapSourceUnknown, cfg.Sitemap.Source)
	}
	if cfg.Sitemap.PostLimit <= 0 {
		return ErrSitemapPostLimitInvalid
	}
	if cfg.Sitemap.RecentPosts <= 0 {
		return ErrSitemapRecentPostsInvalid
	}
	if len(cfg.Sitemap.AllowedSchemes) == 0 {
		return ErrSitemapSchemesRequired
	}
	if cfg.Navigation.Routes.Enabled() && cfg.Navigation.RouteConfig == nil {
		return ErrNavigationRouteConfigNeeded
	}

	if strings.TrimSpace(cfg.HTTP.Address) == "" {
		return ErrHTTPAddressRequired
	}

	provider := normalize(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !slices.Contains([]string{"console", "gologger"}, provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := normalize(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := normalize(cfg.Logging.Format); format != "" && !slices.Contains([]string{"json", "console", "pretty"}, format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}

	for name, spec := range map[string]string{
		"cache_invalidation": cfg.Jobs.CacheInvalidation,
		"markdown_import":    cfg.Jobs.MarkdownImport,
	} {
		if strings.TrimSpace(spec) == "" {
			continue
		}
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrJobScheduleInvalid, name, err)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}
