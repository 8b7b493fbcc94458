// Package collectors feeds device discovery events into the metrics package.
package collectors

import (
	"sync"

	"github.com/smazurov/soundnode/internal/events"
	"github.com/smazurov/soundnode/internal/logging"
	"github.com/smazurov/soundnode/internal/metrics"
)

// EventSubscriber is satisfied by *events.Bus.
type EventSubscriber interface {
	Subscribe(handler any) func()
}

// DeviceCollector keeps the device metrics in step with the event bus.
type DeviceCollector struct {
	bus    EventSubscriber
	logger logging.Logger

	mu     sync.Mutex
	unsubs []func()
}

// NewDeviceCollector creates a collector for bus.
func NewDeviceCollector(bus EventSubscriber) *DeviceCollector {
	return &DeviceCollector{
		bus:    bus,
		logger: logging.GetLogger("metrics"),
	}
}

// Start subscribes to device events.
func (c *DeviceCollector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unsubs != nil {
		return
	}
	c.unsubs = []func(){
		c.bus.Subscribe(c.onDevicesChanged),
		c.bus.Subscribe(c.onBackendDisconnected),
	}
}

// Stop unsubscribes from the bus.
func (c *DeviceCollector) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil
}

func (c *DeviceCollector) onDevicesChanged(e events.DevicesChangedEvent) {
	if e.Snapshot == nil {
		return
	}
	metrics.SetBackendConnected(e.Backend.String(), true)
	metrics.SetDeviceCounts(e.Snapshot.InputCount(), e.Snapshot.OutputCount())
	if !e.Initial {
		metrics.IncDeviceChanges()
	}
	c.logger.Debug("Device metrics updated", "backend", e.Backend.String(),
		"inputs", e.Snapshot.InputCount(), "outputs", e.Snapshot.OutputCount())
}

func (c *DeviceCollector) onBackendDisconnected(e events.BackendDisconnectedEvent) {
	metrics.SetBackendConnected(e.Backend.String(), false)
	metrics.SetDeviceCounts(0, 0)
	metrics.IncBackendDisconnects()
}
