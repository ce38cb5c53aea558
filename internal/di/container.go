package di

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-academy-cms/internal/categories"
	cachecmd "github.com/goliatone/go-academy-cms/internal/commands/cache"
	markdowncmd "github.com/goliatone/go-academy-cms/internal/commands/markdown"
	seedcmd "github.com/goliatone/go-academy-cms/internal/commands/seed"
	shortcodecmd "github.com/goliatone/go-academy-cms/internal/commands/shortcode"
	httpapi "github.com/goliatone/go-academy-cms/internal/http"
	"github.com/goliatone/go-academy-cms/internal/jobs"
	"github.com/goliatone/go-academy-cms/internal/logging"
	"github.com/goliatone/go-academy-cms/internal/logging/console"
	"github.com/goliatone/go-academy-cms/internal/logging/gologger"
	"github.com/goliatone/go-academy-cms/internal/markdown"
	"github.com/goliatone/go-academy-cms/internal/menus"
	"github.com/goliatone/go-academy-cms/internal/metrics"
	"github.com/goliatone/go-academy-cms/internal/pages"
	"github.com/goliatone/go-academy-cms/internal/posts"
	"github.com/goliatone/go-academy-cms/internal/runtimeconfig"
	"github.com/goliatone/go-academy-cms/internal/seed"
	"github.com/goliatone/go-academy-cms/internal/shortcode"
	"github.com/goliatone/go-academy-cms/internal/sitemap"
	"github.com/goliatone/go-academy-cms/internal/storage"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

const (
	JobCacheInvalidation = "cache_invalidation"
	JobMarkdownImport    = "markdown_import"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// Container wires the academy services from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logWriter      io.Writer
	logger         interfaces.Logger

	memoryStorage bool
	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	categoryRepo categories.CategoryRepository
	postRepo     posts.PostRepository
	pageRepo     pages.PageRepository
	menuRepo     menus.MenuRepository
	menuItemRepo menus.MenuItemRepository

	categorySvc categories.Service
	postSvc     posts.Service
	pageSvc     pages.Service
	menuSvc     menus.Service
	now         func() time.Time

	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
	metrics    *metrics.Recorder

	httpClient   *http.Client
	routeManager *urlkit.RouteManager
	links        sitemap.LinkBuilder
	source       sitemap.DataSource
	loader       *sitemap.Loader
	generator    *sitemap.Generator
	registry     *shortcode.Registry
	shortcodes   *shortcode.Service
	renderer     *markdown.Renderer
	seedApplier  *seed.Applier

	cacheCommand  *cachecmd.InvalidateCacheHandler
	expandCommand *shortcodecmd.ExpandContentHandler
	seedCommand   *seedcmd.ApplyFixtureHandler

	markdownOnce     sync.Once
	markdownSvc      *markdown.Service
	markdownCommands *markdowncmd.HandlerSet
	markdownErr      error
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithLogWriter redirects the console provider output.
func WithLogWriter(w io.Writer) Option {
	return func(c *Container) {
		c.logWriter = w
	}
}

// WithBunDB reuses an open database instead of opening Config.Storage. The
// caller keeps ownership of db.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithMemoryStorage keeps every repository in memory.
func WithMemoryStorage() Option {
	return func(c *Container) {
		c.memoryStorage = true
	}
}

// WithCache overrides the go-repository-cache collaborators.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithClock overrides the time source handed to the domain services.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.now = clock
	}
}

// WithPrometheusRegistry registers collectors on reg instead of a private
// registry.
func WithPrometheusRegistry(reg *prometheus.Registry) Option {
	return func(c *Container) {
		if reg != nil {
			c.registerer = reg
			c.gatherer = reg
		}
	}
}

// WithHTTPClient overrides the client used by the HTTP sitemap source.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

func WithCategoryService(svc categories.Service) Option {
	return func(c *Container) {
		c.categorySvc = svc
	}
}

func WithPostService(svc posts.Service) Option {
	return func(c *Container) {
		c.postSvc = svc
	}
}

func WithPageService(svc pages.Service) Option {
	return func(c *Container) {
		c.pageSvc = svc
	}
}

func WithMenuService(svc menus.Service) Option {
	return func(c *Container) {
		c.menuSvc = svc
	}
}

// WithDataSource overrides the sitemap data source selected by
// Config.Sitemap.Source.
func WithDataSource(source sitemap.DataSource) Option {
	return func(c *Container) {
		c.source = source
	}
}

// NewContainer validates cfg and wires every service. The returned container
// must be closed when it opened its own database.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:       cfg,
		cacheTTL:     cacheTTL,
		categoryRepo: categories.NewMemoryCategoryRepository(),
		postRepo:     posts.NewMemoryPostRepository(),
		pageRepo:     pages.NewMemoryPageRepository(),
		menuRepo:     menus.NewMemoryMenuRepository(),
		menuItemRepo: menus.NewMemoryMenuItemRepository(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(context.Background()); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	c.configureServices()
	if err := c.configureMetrics(); err != nil {
		_ = c.closeOwned()
		return nil, err
	}
	c.configureNavigation()
	if err := c.configureSitemap(); err != nil {
		_ = c.closeOwned()
		return nil, err
	}
	if err := c.configureCommands(); err != nil {
		_ = c.closeOwned()
		return nil, err
	}

	logging.WithFields(c.logger, map[string]any{
		"storage":        c.storageKind(),
		"cache":          c.cacheService != nil,
		"sitemap_source": c.sourceKind(),
		"metrics":        c.metrics != nil,
		"urlkit":         c.routeManager != nil,
	}).Debug("container.configured")
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider == nil {
		cfg := c.Config.Logging
		switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
		case "gologger":
			provider, err := gologger.NewProvider(gologger.Config{
				Level:     cfg.Level,
				Format:    cfg.Format,
				AddSource: cfg.AddSource,
				Focus:     cfg.Focus,
			})
			if err != nil {
				return err
			}
			c.loggerProvider = provider
		default:
			level, _ := console.ParseLevel(cfg.Level)
			c.loggerProvider = console.NewProvider(console.Options{
				Writer:   c.logWriter,
				MinLevel: &level,
			})
		}
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "academy.di")
	return nil
}

func (c *Container) configureStorage(ctx context.Context) error {
	if c.memoryStorage {
		return nil
	}
	if c.bunDB == nil {
		db, err := storage.Open(c.Config.Storage)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if c.Config.Storage.CreateSchema {
		if err := storage.CreateSchema(ctx, c.bunDB, logging.StorageLogger(c.loggerProvider)); err != nil {
			_ = c.closeOwned()
			return err
		}
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			logging.WithError(c.logger, err).Warn("container.cache.disabled")
			return
		}
		c.cacheService = service
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		return
	}
	c.categoryRepo = categories.NewBunCategoryRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.postRepo = posts.NewBunPostRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.pageRepo = pages.NewBunPageRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.menuRepo = menus.NewBunMenuRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.menuItemRepo = menus.NewBunMenuItemRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
}

func (c *Container) configureServices() {
	moduleLogger := func(module string) interfaces.Logger {
		return logging.ModuleLogger(c.loggerProvider, "academy."+module)
	}

	if c.categorySvc == nil {
		opts := []categories.ServiceOption{categories.WithLogger(moduleLogger("categories"))}
		if c.now != nil {
			opts = append(opts, categories.WithClock(c.now))
		}
		c.categorySvc = categories.NewService(c.categoryRepo, opts...)
	}

	if c.postSvc == nil {
		opts := []posts.ServiceOption{
			posts.WithCategoryLookup(c.categoryRepo),
			posts.WithLogger(moduleLogger("posts")),
		}
		if c.now != nil {
			opts = append(opts, posts.WithClock(c.now))
		}
		c.postSvc = posts.NewService(c.postRepo, opts...)
	}

	if c.pageSvc == nil {
		opts := []pages.ServiceOption{pages.WithLogger(moduleLogger("pages"))}
		if c.now != nil {
			opts = append(opts, pages.WithClock(c.now))
		}
		c.pageSvc = pages.NewService(c.pageRepo, opts...)
	}

	if c.menuSvc == nil {
		opts := []menus.ServiceOption{menus.WithLogger(moduleLogger("menus"))}
		if c.now != nil {
			opts = append(opts, menus.WithClock(c.now))
		}
		c.menuSvc = menus.NewService(c.menuRepo, c.menuItemRepo, opts...)
	}
}

func (c *Container) configureMetrics() error {
	if !c.Config.Metrics.Enabled {
		return nil
	}
	if c.registerer == nil {
		registry := prometheus.NewRegistry()
		c.registerer = registry
		c.gatherer = registry
	}
	recorder, err := metrics.NewRecorder(c.registerer, c.Config.Metrics.Namespace)
	if err != nil {
		return fmt.Errorf("di: metrics: %w", err)
	}
	c.metrics = recorder
	return nil
}

func (c *Container) configureNavigation() {
	c.links = sitemap.DefaultLinks{}

	navCfg := c.Config.Navigation
	if navCfg.RouteConfig == nil {
		return
	}

	manager := urlkit.NewRouteManager(navCfg.RouteConfig)
	c.routeManager = manager
	c.links = sitemap.NewURLKitLinks(manager, navCfg.Group, sitemap.URLKitRoutes{
		Home:     strings.TrimSpace(navCfg.Routes.Home),
		Blog:     strings.TrimSpace(navCfg.Routes.Blog),
		Sitemap:  strings.TrimSpace(navCfg.Routes.Sitemap),
		Page:     strings.TrimSpace(navCfg.Routes.Page),
		Post:     strings.TrimSpace(navCfg.Routes.Post),
		Category: strings.TrimSpace(navCfg.Routes.Category),
	}, sitemap.DefaultLinks{}, logging.SitemapLogger(c.loggerProvider))
}

func (c *Container) configureSitemap() error {
	cfg := c.Config.Sitemap
	sitemapLogger := logging.SitemapLogger(c.loggerProvider)

	if c.source == nil {
		switch strings.ToLower(strings.TrimSpace(cfg.Source)) {
		case "http":
			client := c.httpClient
			if client == nil {
				client = &http.Client{Timeout: cfg.FetchTimeout}
			}
			source, err := sitemap.NewHTTPSource(c.Config.HTTP.PublicAPIURL,
				sitemap.WithHTTPClient(client),
				sitemap.WithSourceLogger(sitemapLogger),
			)
			if err != nil {
				return err
			}
			c.source = source
		default:
			c.source = sitemap.NewRepositorySource(c.categorySvc, c.postSvc, c.pageSvc, c.menuSvc)
		}
	}

	loaderOpts := []sitemap.LoaderOption{
		sitemap.WithPostLimit(cfg.PostLimit),
		sitemap.WithLoaderLogger(sitemapLogger),
	}
	shortcodeOpts := []shortcode.ServiceOption{
		shortcode.WithLogger(logging.ShortcodeLogger(c.loggerProvider)),
	}
	if c.metrics != nil {
		loaderOpts = append(loaderOpts, sitemap.WithFailureRecorder(c.metrics))
		shortcodeOpts = append(shortcodeOpts, shortcode.WithMetrics(c.metrics))
	}
	c.loader = sitemap.NewLoader(c.source, loaderOpts...)
	c.generator = sitemap.NewGenerator(
		sitemap.WithLinks(c.links),
		sitemap.WithURLPolicy(sitemap.NewURLPolicy(cfg.AllowedSchemes...)),
		sitemap.WithRecentPosts(cfg.RecentPosts),
	)
	c.registry = shortcode.NewRegistry()
	if err := shortcode.RegisterBuiltins(c.registry, c.generator); err != nil {
		return fmt.Errorf("di: register shortcodes: %w", err)
	}
	shortcodeOpts = append(shortcodeOpts,
		shortcode.WithGenerator(c.generator),
		shortcode.WithRegistry(c.registry),
	)
	c.shortcodes = shortcode.NewService(c.loader, shortcodeOpts...)
	c.renderer = markdown.NewRenderer(markdown.DefaultRendererOptions())
	return nil
}

func (c *Container) configureCommands() error {
	c.seedApplier = seed.NewApplier(seed.Services{
		Categories: c.categorySvc,
		Posts:      c.postSvc,
		Pages:      c.pageSvc,
		Menus:      c.menuSvc,
	}, logging.ModuleLogger(c.loggerProvider, "academy.seed"))

	var err error
	if c.cacheCommand, err = cachecmd.RegisterCacheCommands(nil, c.CacheInvalidators(), c.loggerProvider); err != nil {
		return err
	}
	if c.expandCommand, err = shortcodecmd.RegisterShortcodeCommands(nil, c.shortcodes, c.renderer, c.loggerProvider); err != nil {
		return err
	}
	if c.seedCommand, err = seedcmd.RegisterSeedCommands(nil, c.seedApplier, c.loggerProvider); err != nil {
		return err
	}
	return nil
}

// MarkdownService builds the importer rooted at Config.Markdown.ContentDir on
// first use. It fails when the content directory does not exist.
func (c *Container) MarkdownService() (*markdown.Service, error) {
	c.markdownOnce.Do(func() {
		cfg := c.Config.Markdown
		importer := markdown.NewImporter(markdown.ImporterConfig{
			Posts:           c.postSvc,
			Categories:      c.categorySvc,
			Logger:          logging.MarkdownLogger(c.loggerProvider),
			DefaultCategory: cfg.DefaultCategory,
		})
		service, err := markdown.NewService(markdown.Config{
			BasePath:  cfg.ContentDir,
			Pattern:   cfg.Pattern,
			Recursive: cfg.Recursive,
		}, importer)
		if err != nil {
			c.markdownErr = err
			return
		}
		c.markdownSvc = service
		c.markdownCommands, c.markdownErr = markdowncmd.RegisterMarkdownCommands(nil, service, c.loggerProvider)
	})
	return c.markdownSvc, c.markdownErr
}

// MarkdownCommands returns the markdown import handlers.
func (c *Container) MarkdownCommands() (*markdowncmd.HandlerSet, error) {
	if _, err := c.MarkdownService(); err != nil {
		return nil, err
	}
	return c.markdownCommands, nil
}

// RegisterCommands hands every command handler to reg. Markdown handlers are
// skipped when the content directory is unavailable.
func (c *Container) RegisterCommands(reg CommandRegistry) ([]any, error) {
	handlers := []any{c.cacheCommand, c.expandCommand, c.seedCommand}
	if set, err := c.MarkdownCommands(); err != nil {
		logging.WithError(c.logger, err).Warn("container.commands.markdown_skipped")
	} else {
		handlers = append(handlers, set.ImportDirectory, set.ImportFiles)
	}

	if reg == nil {
		return handlers, nil
	}
	var errs error
	for _, handler := range handlers {
		if err := reg.RegisterCommand(handler); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return handlers, errs
}

// CacheInvalidators maps cache scopes to the services that own them.
func (c *Container) CacheInvalidators() map[string]interfaces.CacheInvalidator {
	return map[string]interfaces.CacheInvalidator{
		cachecmd.ScopeCategories: c.categorySvc,
		cachecmd.ScopePosts:      c.postSvc,
		cachecmd.ScopePages:      c.pageSvc,
		cachecmd.ScopeMenus:      c.menuSvc,
	}
}

// HTTPServer builds the router over the configured services.
func (c *Container) HTTPServer() *httpapi.Server {
	cfg := c.Config.HTTP
	opts := []httpapi.Option{
		httpapi.WithPublicBase(cfg.PublicAPIBase),
		httpapi.WithAdminBase(cfg.AdminAPIBase),
		httpapi.WithLinks(c.links),
		httpapi.WithCategoryService(c.categorySvc),
		httpapi.WithPostService(c.postSvc),
		httpapi.WithPageService(c.pageSvc),
		httpapi.WithMenuService(c.menuSvc),
		httpapi.WithShortcodeService(c.shortcodes),
		httpapi.WithMarkdownRenderer(c.renderer),
		httpapi.WithCacheInvalidators(c.CacheInvalidators()),
		httpapi.WithPreviewCommand(c.expandCommand),
		httpapi.WithInvalidateCommand(c.cacheCommand),
		httpapi.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	}
	if c.metrics != nil {
		opts = append(opts,
			httpapi.WithRequestObserver(c.metrics),
			httpapi.WithMetricsHandler(c.Config.Metrics.Path, metrics.Handler(c.gatherer)),
		)
	}
	return httpapi.NewServer(opts...)
}

// Scheduler registers the maintenance jobs on a stopped scheduler. Jobs with
// an empty schedule stay runnable on demand.
func (c *Container) Scheduler() (*jobs.Scheduler, error) {
	scheduler := jobs.NewScheduler(jobs.WithLogger(logging.ModuleLogger(c.loggerProvider, "academy.jobs")))

	if err := scheduler.Register(JobCacheInvalidation, c.Config.Jobs.CacheInvalidation, func(ctx context.Context) error {
		return c.cacheCommand.Execute(ctx, cachecmd.InvalidateCacheCommand{})
	}); err != nil {
		return nil, err
	}

	set, err := c.MarkdownCommands()
	if err != nil {
		if strings.TrimSpace(c.Config.Jobs.MarkdownImport) != "" {
			return nil, fmt.Errorf("di: markdown import job: %w", err)
		}
		return scheduler, nil
	}
	if err := scheduler.Register(JobMarkdownImport, c.Config.Jobs.MarkdownImport, func(ctx context.Context) error {
		return set.ImportDirectory.Execute(ctx, markdowncmd.ImportDirectoryCommand{})
	}); err != nil {
		return nil, err
	}
	return scheduler, nil
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	return c.closeOwned()
}

func (c *Container) closeOwned() error {
	if !c.ownsDB || c.bunDB == nil {
		return nil
	}
	c.ownsDB = false
	return c.bunDB.Close()
}

func (c *Container) storageKind() string {
	if c.bunDB == nil {
		return "memory"
	}
	return strings.ToLower(strings.TrimSpace(c.Config.Storage.Driver))
}

func (c *Container) sourceKind() string {
	switch c.source.(type) {
	case *sitemap.HTTPSource:
		return "http"
	case *sitemap.RepositorySource:
		return "repository"
	default:
		return fmt.Sprintf("%T", c.source)
	}
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// BunDB exposes the database, nil when repositories are in memory.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// CategoryService returns the configured category service.
func (c *Container) CategoryService() categories.Service {
	return c.categorySvc
}

// PostService returns the configured post service.
func (c *Container) PostService() posts.Service {
	return c.postSvc
}

// PageService returns the configured page service.
func (c *Container) PageService() pages.Service {
	return c.pageSvc
}

// MenuService returns the configured menu service.
func (c *Container) MenuService() menus.Service {
	return c.menuSvc
}

// ShortcodeService returns the sitemap shortcode expander.
func (c *Container) ShortcodeService() *shortcode.Service {
	return c.shortcodes
}

// ShortcodeRegistry returns the definitions the shortcode service dispatches to.
func (c *Container) ShortcodeRegistry() *shortcode.Registry {
	return c.registry
}

// MarkdownRenderer returns the goldmark renderer used before expansion.
func (c *Container) MarkdownRenderer() *markdown.Renderer {
	return c.renderer
}

// SitemapLoader returns the dataset loader behind the shortcode service.
func (c *Container) SitemapLoader() *sitemap.Loader {
	return c.loader
}

// Links returns the link builder used by the generator and site pages.
func (c *Container) Links() sitemap.LinkBuilder {
	return c.links
}

// RouteManager returns the go-urlkit manager, nil without a route config.
func (c *Container) RouteManager() *urlkit.RouteManager {
	return c.routeManager
}

// SeedApplier returns the fixture applier.
func (c *Container) SeedApplier() *seed.Applier {
	return c.seedApplier
}

// CacheCommand returns the cache invalidation handler.
func (c *Container) CacheCommand() *cachecmd.InvalidateCacheHandler {
	return c.cacheCommand
}

// ExpandCommand returns the shortcode expansion handler.
func (c *Container) ExpandCommand() *shortcodecmd.ExpandContentHandler {
	return c.expandCommand
}

// SeedCommand returns the fixture apply handler.
func (c *Container) SeedCommand() *seedcmd.ApplyFixtureHandler {
	return c.seedCommand
}

// Metrics returns the Prometheus recorder, nil when metrics are disabled.
func (c *Container) Metrics() *metrics.Recorder {
	return c.metrics
}

// Gatherer returns the registry the recorder publishes to.
func (c *Container) Gatherer() prometheus.Gatherer {
	return c.gatherer
}
