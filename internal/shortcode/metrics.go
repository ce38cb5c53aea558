package shortcode

import (
	"time"

	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

// NoOpMetrics returns a metrics recorder that drops every observation.
func NoOpMetrics() interfaces.ShortcodeMetrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) ObserveExpansion(time.Duration, int) {}

func (noopMetrics) IncrementFetchFailure(string) {}
