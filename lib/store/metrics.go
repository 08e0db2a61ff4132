package store

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
)

// storeMetrics are the metrics of one store. Every store has its own set so
// multiple stores (and tests) do not clash in the global registry.
type storeMetrics struct {
	set         *metrics.Set
	puts        *metrics.Counter
	updates     *metrics.Counter
	compactions *metrics.Counter
	saves       *metrics.Counter
	loads       *metrics.Counter
	paletteLen  *metrics.Histogram
}

func newStoreMetrics(name string, sections func() int) *storeMetrics {
	set := metrics.NewSet()
	label := func(metric string) string {
		return fmt.Sprintf("%s{store=%q}", metric, name)
	}
	set.NewGauge(label("palcube_store_sections"), func() float64 {
		return float64(sections())
	})
	return &storeMetrics{
		set:         set,
		puts:        set.NewCounter(label("palcube_store_puts_total")),
		updates:     set.NewCounter(label("palcube_store_updates_total")),
		compactions: set.NewCounter(label("palcube_store_compactions_total")),
		saves:       set.NewCounter(label("palcube_store_saves_total")),
		loads:       set.NewCounter(label("palcube_store_loads_total")),
		paletteLen:  set.NewHistogram(label("palcube_store_palette_len")),
	}
}
