package interfaces

import (
	"context"
	"time"
)

// ShortcodeService expands `[sitemap ...]` occurrences embedded in stored
// content. Implementations must leave content without shortcodes untouched
// and must not fetch data in that case.
type ShortcodeService interface {
	Process(ctx context.Context, content string) (string, error)
}

// ShortcodeMetrics captures the instrumentation hooks emitted while expanding
// shortcodes. Implementations must be safe for concurrent use.
type ShortcodeMetrics interface {
	ObserveExpansion(duration time.Duration, matches int)
	IncrementFetchFailure(source string)
}
