package http

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-academy-cms/internal/categories"
	cachecmd "github.com/goliatone/go-academy-cms/internal/commands/cache"
	shortcodecmd "github.com/goliatone/go-academy-cms/internal/commands/shortcode"
	"github.com/goliatone/go-academy-cms/internal/logging"
	"github.com/goliatone/go-academy-cms/internal/menus"
	"github.com/goliatone/go-academy-cms/internal/pages"
	"github.com/goliatone/go-academy-cms/internal/posts"
	"github.com/goliatone/go-academy-cms/internal/sitemap"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

const (
	defaultPublicBase  = "/api/public"
	defaultAdminBase   = "/admin/api"
	defaultMetricsPath = "/metrics"
	defaultRecentPosts = 5
)

// RequestObserver records one observation per served request. route is the
// matched chi pattern.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
}

// Server wires the public site, the public API and the admin API.
type Server struct {
	router chi.Router

	publicBase  string
	adminBase   string
	metricsPath string
	siteName    string
	recentPosts int

	categories categories.Service
	posts      posts.Service
	pages      pages.Service
	menus      menus.Service
	shortcodes interfaces.ShortcodeService
	renderer   interfaces.MarkdownRenderer
	cache      map[string]interfaces.CacheInvalidator

	preview    command.Commander[shortcodecmd.ExpandContentCommand]
	invalidate command.Commander[cachecmd.InvalidateCacheCommand]

	links  sitemap.LinkBuilder
	layout *template.Template

	metrics        RequestObserver
	metricsHandler http.Handler
	logger         interfaces.Logger
}

// Option mutates the Server configuration.
type Option func(*Server)

// WithPublicBase overrides the public API prefix (defaults to "/api/public").
func WithPublicBase(path string) Option {
	return func(s *Server) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			s.publicBase = trimmed
		}
	}
}

// WithAdminBase overrides the admin API prefix (defaults to "/admin/api").
func WithAdminBase(path string) Option {
	return func(s *Server) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			s.adminBase = trimmed
		}
	}
}

// WithSiteName sets the name shown in page titles.
func WithSiteName(name string) Option {
	return func(s *Server) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			s.siteName = trimmed
		}
	}
}

// WithRecentPosts sets how many posts the home page lists.
func WithRecentPosts(count int) Option {
	return func(s *Server) {
		if count > 0 {
			s.recentPosts = count
		}
	}
}

// WithLinks sets the link builder used by the HTML layout. It should match
// the one the sitemap generator uses.
func WithLinks(links sitemap.LinkBuilder) Option {
	return func(s *Server) {
		s.links = links
	}
}

// WithCategoryService wires the category service.
func WithCategoryService(service categories.Service) Option {
	return func(s *Server) {
		s.categories = service
	}
}

// WithPostService wires the post service.
func WithPostService(service posts.Service) Option {
	return func(s *Server) {
		s.posts = service
	}
}

// WithPageService wires the page service.
func WithPageService(service pages.Service) Option {
	return func(s *Server) {
		s.pages = service
	}
}

// WithMenuService wires the menu service.
func WithMenuService(service menus.Service) Option {
	return func(s *Server) {
		s.menus = service
	}
}

// WithShortcodeService wires the expander applied to rendered bodies.
func WithShortcodeService(service interfaces.ShortcodeService) Option {
	return func(s *Server) {
		s.shortcodes = service
	}
}

// WithMarkdownRenderer wires the renderer applied to stored bodies.
func WithMarkdownRenderer(renderer interfaces.MarkdownRenderer) Option {
	return func(s *Server) {
		s.renderer = renderer
	}
}

// WithCacheInvalidators exposes POST {admin}/cache/invalidate for the given
// scopes.
func WithCacheInvalidators(targets map[string]interfaces.CacheInvalidator) Option {
	return func(s *Server) {
		s.cache = targets
	}
}

// WithPreviewCommand overrides the handler behind POST {admin}/shortcodes/preview.
// It defaults to an expand command over the configured shortcode service.
func WithPreviewCommand(handler command.Commander[shortcodecmd.ExpandContentCommand]) Option {
	return func(s *Server) {
		s.preview = handler
	}
}

// WithInvalidateCommand overrides the handler behind POST {admin}/cache/invalidate.
func WithInvalidateCommand(handler command.Commander[cachecmd.InvalidateCacheCommand]) Option {
	return func(s *Server) {
		s.invalidate = handler
	}
}

// WithRequestObserver records request metrics.
func WithRequestObserver(observer RequestObserver) Option {
	return func(s *Server) {
		s.metrics = observer
	}
}

// WithMetricsHandler mounts handler at path (defaults to "/metrics").
func WithMetricsHandler(path string, handler http.Handler) Option {
	return func(s *Server) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			s.metricsPath = trimmed
		}
		s.metricsHandler = handler
	}
}

// WithLogger attaches the request logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer builds the router. Routes backed by a missing service answer 503.
func NewServer(opts ...Option) *Server {
	s := &Server{
		publicBase:  defaultPublicBase,
		adminBase:   defaultAdminBase,
		metricsPath: defaultMetricsPath,
		siteName:    "Academy",
		recentPosts: defaultRecentPosts,
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.preview == nil && s.shortcodes != nil {
		s.preview = shortcodecmd.NewExpandContentHandler(s.shortcodes, s.renderer, s.logger)
	}
	if s.invalidate == nil && len(s.cache) > 0 {
		s.invalidate = cachecmd.NewInvalidateCacheHandler(s.cache, s.logger)
	}
	s.layout = s.parseLayout()
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observeRequests)

	if s.metricsHandler != nil {
		r.Method(http.MethodGet, joinPath(s.metricsPath, ""), s.metricsHandler)
	}

	r.Route(joinPath(s.publicBase, ""), s.registerPublicRoutes)
	r.Route(joinPath(s.adminBase, ""), func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		s.registerCategoryRoutes(r)
		s.registerPostRoutes(r)
		s.registerPageRoutes(r)
		s.registerMenuRoutes(r)
		s.registerShortcodeRoutes(r)
		s.registerCacheRoutes(r)
	})

	s.registerSiteRoutes(r)
	s.router = r
}
