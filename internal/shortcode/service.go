package shortcode

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-academy-cms/internal/logging"
	"github.com/goliatone/go-academy-cms/internal/sitemap"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

// DatasetLoader fetches the data rendered by every match of one Process call.
type DatasetLoader interface {
	Load(ctx context.Context) sitemap.Dataset
}

// FragmentRenderer turns a dataset into the HTML substituted for a match.
type FragmentRenderer interface {
	Render(data sitemap.Dataset, opts sitemap.Options) string
}

// Service expands `[sitemap]` shortcodes embedded in content.
type Service struct {
	loader    DatasetLoader
	generator FragmentRenderer
	registry  *Registry
	logger    interfaces.Logger
	metrics   interfaces.ShortcodeMetrics
}

// ServiceOption customises service behaviour.
type ServiceOption func(*Service)

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics wires the metrics recorder used for telemetry.
func WithMetrics(metrics interfaces.ShortcodeMetrics) ServiceOption {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithLoader overrides the dataset loader.
func WithLoader(loader DatasetLoader) ServiceOption {
	return func(s *Service) {
		if loader != nil {
			s.loader = loader
		}
	}
}

// WithGenerator overrides the fragment renderer.
func WithGenerator(generator FragmentRenderer) ServiceOption {
	return func(s *Service) {
		if generator != nil {
			s.generator = generator
		}
	}
}

// WithRegistry supplies the definition catalogue matches are dispatched
// through. The service then registers nothing itself.
func WithRegistry(registry *Registry) ServiceOption {
	return func(s *Service) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// NewService constructs a shortcode service. The generator defaults to
// sitemap.NewGenerator(). Without WithRegistry a private registry holding the
// sitemap definition is created.
func NewService(loader DatasetLoader, opts ...ServiceOption) *Service {
	service := &Service{
		loader:    loader,
		generator: sitemap.NewGenerator(),
		logger:    logging.NoOp(),
		metrics:   NoOpMetrics(),
	}
	for _, opt := range opts {
		opt(service)
	}
	if service.registry == nil {
		service.registry = NewRegistry()
		_ = RegisterBuiltins(service.registry, service.generator)
	}
	return service
}

// Registry exposes the definitions the service dispatches to.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Process replaces every shortcode in content with its rendered fragment.
// Content without shortcodes is returned unchanged and triggers no data
// fetch. Otherwise the dataset is loaded once and shared by all matches.
// Data failures render as empty sections; only a misconfigured service
// returns an error.
func (s *Service) Process(ctx context.Context, content string) (string, error) {
	matches := Collect(content)
	if len(matches) == 0 {
		return content, nil
	}
	if s.loader == nil || s.registry == nil {
		return "", ErrNotConfigured
	}
	def, ok := s.registry.Get(SitemapName)
	if !ok {
		return "", ErrNotConfigured
	}
	if ctx == nil {
		ctx = context.Background()
	}

	logger := logging.WithFields(s.baseLogger(ctx), map[string]any{
		"operation": "shortcode.process",
		"shortcode": def.Name,
	})

	start := time.Now()
	dataset := s.loader.Load(ctx)

	var out strings.Builder
	out.Grow(len(content))
	last := 0
	for idx, match := range matches {
		out.WriteString(content[last:match.Start])
		out.WriteString(def.Handler(dataset, match))
		last = match.End

		logging.WithFields(logger, map[string]any{
			"index":      idx,
			"attributes": match.AttributesRaw,
		}).Trace("shortcode.service.match_rendered")
	}
	out.WriteString(content[last:])

	elapsed := time.Since(start)
	s.metrics.ObserveExpansion(elapsed, len(matches))
	logging.WithFields(logger, map[string]any{
		"shortcodes":    len(matches),
		"empty_dataset": dataset.IsEmpty(),
		"duration_ms":   elapsed.Milliseconds(),
	}).Debug("shortcode.service.process_completed")

	return out.String(), nil
}

// Ensure Service complies with interfaces.ShortcodeService.
var _ interfaces.ShortcodeService = (*Service)(nil)

type noOpService struct{}

// NewNoOpService returns a shortcode service that leaves content untouched.
func NewNoOpService() interfaces.ShortcodeService {
	return noOpService{}
}

func (noOpService) Process(_ context.Context, content string) (string, error) {
	return content, nil
}

func (s *Service) baseLogger(ctx context.Context) interfaces.Logger {
	logger := s.logger
	if logger == nil {
		logger = logging.NoOp()
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	return logger
}
