package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/soundnode/internal/api/models"
	"github.com/smazurov/soundnode/pkg/soundio"
)

// DeviceListInput filters the device listing.
type DeviceListInput struct {
	Aim models.DeviceAim `query:"aim" doc:"Only list devices with this direction"`
}

// DeviceIDInput selects one device.
type DeviceIDInput struct {
	Aim      models.DeviceAim `path:"aim" doc:"Device direction"`
	DeviceID string           `path:"device_id" example:"hw:PCH,0" doc:"Device identifier"`
}

func (s *Server) registerDeviceRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-devices",
		Method:      http.MethodGet,
		Path:        "/api/devices",
		Summary:     "List Devices",
		Description: "Latest device snapshot of the watched backend",
		Tags:        []string{"devices"},
		Errors:      []int{503},
	}, func(ctx context.Context, input *DeviceListInput) (*models.DeviceListResponse, error) {
		snap, _ := s.current()
		if snap == nil {
			return nil, huma.Error503ServiceUnavailable("No device snapshot yet")
		}

		data := models.FromSnapshot(snap)
		switch input.Aim {
		case models.AimInput:
			data.Outputs = []models.DeviceData{}
			data.DefaultOutput = -1
		case models.AimOutput:
			data.Inputs = []models.DeviceData{}
			data.DefaultInput = -1
		}
		return &models.DeviceListResponse{Body: data}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-device",
		Method:      http.MethodGet,
		Path:        "/api/devices/{aim}/{device_id}",
		Summary:     "Get Device",
		Description: "One device of the latest snapshot, looked up by identifier",
		Tags:        []string{"devices"},
		Errors:      []int{404, 503},
	}, func(ctx context.Context, input *DeviceIDInput) (*models.DeviceResponse, error) {
		snap, _ := s.current()
		if snap == nil {
			return nil, huma.Error503ServiceUnavailable("No device snapshot yet")
		}

		list := snap.Inputs()
		if input.Aim == models.AimOutput {
			list = snap.Outputs()
		}
		// IDs are only unique together with the raw flag
		for _, d := range list {
			if d.ID == input.DeviceID && !d.IsRaw {
				return &models.DeviceResponse{Body: models.FromDevice(d)}, nil
			}
		}
		for _, d := range list {
			if d.ID == input.DeviceID {
				return &models.DeviceResponse{Body: models.FromDevice(d)}, nil
			}
		}
		return nil, huma.Error404NotFound("Device not found: " + input.DeviceID)
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "list-backends",
		Method:      http.MethodGet,
		Path:        "/api/backends",
		Summary:     "List Backends",
		Description: "Compiled-in backends and whether each is usable",
		Tags:        []string{"devices"},
	}, func(ctx context.Context, input *struct{}) (*models.BackendListResponse, error) {
		s.mu.RLock()
		watched, connected := s.backend, s.connected
		s.mu.RUnlock()

		var compiled []soundio.BackendKind
		if s.registry != nil {
			compiled = s.registry.Compiled()
		}

		data := models.BackendListData{Backends: make([]models.BackendData, 0, len(compiled))}
		for _, kind := range compiled {
			data.Backends = append(data.Backends, models.BackendData{
				Name:      kind.String(),
				Available: s.registry.IsAvailable(kind),
				Connected: connected && kind == watched,
			})
		}
		data.Count = len(data.Backends)
		return &models.BackendListResponse{Body: data}, nil
	})
}
