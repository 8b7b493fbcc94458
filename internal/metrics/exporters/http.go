// Package exporters exposes collected metrics over HTTP.
package exporters

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smazurov/soundnode/internal/logging"
)

// errorLog routes promhttp encoding errors to the metrics logger.
type errorLog struct {
	logger logging.Logger
}

func (l errorLog) Println(v ...any) {
	l.logger.Warn("Metrics exposition error", "error", fmt.Sprint(v...))
}

// HTTPHandler serves every promauto-registered metric from the default
// registry. A collector that fails to gather is logged and skipped.
func HTTPHandler() http.Handler {
	return promhttp.InstrumentMetricHandler(prometheus.DefaultRegisterer,
		promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
			ErrorLog:          errorLog{logger: logging.GetLogger("metrics")},
			ErrorHandling:     promhttp.ContinueOnError,
			EnableOpenMetrics: true,
		}))
}
