package models

import "time"

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"dev" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit SHA"`
	BuildDate string `json:"build_date" example:"2026-03-02 14:30" doc:"Build timestamp"`
	BuildID   string `json:"build_id" example:"a1b2c3d4" doc:"Unique build identifier"`
	GoVersion string `json:"go_version" example:"go1.24.0" doc:"Go compiler version"`
	Compiler  string `json:"compiler" example:"gc" doc:"Compiler used"`
	Platform  string `json:"platform" example:"linux/amd64" doc:"Platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Backend models
type BackendData struct {
	Name      string `json:"name" example:"Alsa" doc:"Backend name as accepted by --backend"`
	Available bool   `json:"available" example:"true" doc:"Whether the backend can be used on this system"`
	Connected bool   `json:"connected" example:"false" doc:"Whether this is the backend being watched"`
}

type BackendListData struct {
	Backends []BackendData `json:"backends" doc:"Compiled-in backends in priority order"`
	Count    int           `json:"count" example:"3" doc:"Number of compiled-in backends"`
}

type BackendListResponse struct {
	Body BackendListData
}

// SSE event payloads
type DevicesChangedEvent struct {
	Backend   string         `json:"backend" example:"PulseAudio" doc:"Backend that reported the change"`
	Initial   bool           `json:"initial" doc:"True for the first snapshot after connecting"`
	Devices   DeviceListData `json:"devices" doc:"Full device snapshot"`
	Timestamp time.Time      `json:"timestamp" doc:"When the change was observed"`
}

type BackendDisconnectedEvent struct {
	Backend   string    `json:"backend" example:"PulseAudio" doc:"Backend that went away"`
	Error     string    `json:"error" example:"connection terminated" doc:"Reported cause"`
	Timestamp time.Time `json:"timestamp" doc:"When the loss was observed"`
}

type LogLevelsChangedEvent struct {
	Level     string            `json:"level" example:"info" doc:"Global log level"`
	Modules   map[string]string `json:"modules,omitempty" doc:"Per-module level overrides"`
	Timestamp time.Time         `json:"timestamp" doc:"When the new levels were applied"`
}
