package academy

import "github.com/goliatone/go-academy-cms/internal/runtimeconfig"

var (
	ErrStorageDriverUnknown        = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired          = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid             = runtimeconfig.ErrCacheTTLInvalid
	ErrSitemapSourceUnknown        = runtimeconfig.ErrSitemapSourceUnknown
	ErrSitemapPostLimitInvalid     = runtimeconfig.ErrSitemapPostLimitInvalid
	ErrSitemapRecentPostsInvalid   = runtimeconfig.ErrSitemapRecentPostsInvalid
	ErrSitemapSchemesRequired      = runtimeconfig.ErrSitemapSchemesRequired
	ErrSitemapAPIURLRequired       = runtimeconfig.ErrSitemapAPIURLRequired
	ErrNavigationRouteConfigNeeded = runtimeconfig.ErrNavigationRouteConfigNeeded
	ErrHTTPAddressRequired         = runtimeconfig.ErrHTTPAddressRequired
	ErrLoggingProviderRequired     = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown      = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid         = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid        = runtimeconfig.ErrLoggingFormatInvalid
	ErrJobScheduleInvalid          = runtimeconfig.ErrJobScheduleInvalid
)

type (
	Config           = runtimeconfig.Config
	StorageConfig    = runtimeconfig.StorageConfig
	CacheConfig      = runtimeconfig.CacheConfig
	SitemapConfig    = runtimeconfig.SitemapConfig
	NavigationConfig = runtimeconfig.NavigationConfig
	SitemapRoutes    = runtimeconfig.SitemapRoutes
	HTTPConfig       = runtimeconfig.HTTPConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
	MetricsConfig    = runtimeconfig.MetricsConfig
	MarkdownConfig   = runtimeconfig.MarkdownConfig
	JobsConfig       = runtimeconfig.JobsConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
