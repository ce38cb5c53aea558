package academy_test

import (
	"errors"
	"testing"

	academy "github.com/goliatone/go-academy-cms"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := academy.DefaultConfig().Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestConfigValidateHTTPSourceRequiresAPIURL(t *testing.T) {
	cfg := academy.DefaultConfig()
	cfg.Sitemap.Source = "http"

	if err := cfg.Validate(); !errors.Is(err, academy.ErrSitemapAPIURLRequired) {
		t.Fatalf("expected ErrSitemapAPIURLRequired, got %v", err)
	}
}

func TestConfigValidateNavigationRoutesRequireRouteConfig(t *testing.T) {
	cfg := academy.DefaultConfig()
	cfg.Navigation.Routes.Post = "post"

	if err := cfg.Validate(); !errors.Is(err, academy.ErrNavigationRouteConfigNeeded) {
		t.Fatalf("expected ErrNavigationRouteConfigNeeded, got %v", err)
	}
}

func TestConfigValidateLoggingProviderUnknown(t *testing.T) {
	cfg := academy.DefaultConfig()
	cfg.Logging.Provider = "syslog"

	if err := cfg.Validate(); !errors.Is(err, academy.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidateJobSchedule(t *testing.T) {
	cfg := academy.DefaultConfig()
	cfg.Jobs.CacheInvalidation = "every tuesday"

	if err := cfg.Validate(); !errors.Is(err, academy.ErrJobScheduleInvalid) {
		t.Fatalf("expected ErrJobScheduleInvalid, got %v", err)
	}
}
