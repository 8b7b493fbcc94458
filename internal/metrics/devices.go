// Package metrics provides Prometheus metrics for audio device discovery.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Aim label values.
const (
	AimInput  = "input"
	AimOutput = "output"
)

var (
	devices = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "soundnode",
		Name:      "devices",
		Help:      "Devices in the current snapshot",
	}, []string{"aim"})

	deviceChanges = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "soundnode",
		Name:      "device_changes_total",
		Help:      "Device topology changes observed after connecting",
	})

	backendConnected = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "soundnode",
		Name:      "backend_connected",
		Help:      "1 while connected to the backend",
	}, []string{"backend"})

	backendDisconnects = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "soundnode",
		Name:      "backend_disconnects_total",
		Help:      "Backend connections lost while watching",
	})
)

// SetDeviceCounts records the size of the current snapshot.
func SetDeviceCounts(inputs, outputs int) {
	devices.WithLabelValues(AimInput).Set(float64(inputs))
	devices.WithLabelValues(AimOutput).Set(float64(outputs))
}

// IncDeviceChanges counts one topology change.
func IncDeviceChanges() {
	deviceChanges.Inc()
}

// SetBackendConnected marks backend as connected or not.
func SetBackendConnected(backend string, connected bool) {
	v := 0.0
	if connected {
		v = 1
	}
	backendConnected.WithLabelValues(backend).Set(v)
}

// IncBackendDisconnects counts one lost backend connection.
func IncBackendDisconnects() {
	backendDisconnects.Inc()
}
