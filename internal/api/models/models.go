// Package models holds the request and response bodies of the admin API.
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
	BuildDate string `json:"build_date" example:"2024-12-15 14:30" doc:"Build timestamp"`
	BuildID   string `json:"build_id" example:"a1b2c3d4" doc:"Unique build identifier"`
	GoVersion string `json:"go_version" example:"go1.24.11" doc:"Go compiler version"`
	Compiler  string `json:"compiler" example:"gc" doc:"Compiler used"`
	Platform  string `json:"platform" example:"linux/arm" doc:"Platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Log models
type LogsInput struct {
	Module string `query:"module" example:"server" doc:"Only return entries from this module"`
	Limit  int    `query:"limit" minimum:"0" maximum:"1000" example:"100" doc:"Return at most this many of the newest entries (0 = all)"`
}

type LogEntry struct {
	Timestamp  time.Time      `json:"timestamp" doc:"When the entry was logged"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"server" doc:"Logger module"`
	Message    string         `json:"message" example:"State changed" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured attributes"`
}

type LogsData struct {
	Entries []LogEntry `json:"entries" doc:"Buffered log entries, oldest first"`
	Count   int        `json:"count" example:"42" doc:"Number of entries returned"`
}

type LogsResponse struct {
	Body LogsData
}

// LogEvent is the SSE payload for "log".
type LogEvent struct {
	LogEntry
	Line string `json:"line" example:"2025-01-02T03:04:05Z [INFO] [server] Control surface listening addr=:80" doc:"Entry formatted for display"`
}
