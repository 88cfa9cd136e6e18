package models

import "time"

// ChannelStatus is one output channel as last observed.
type ChannelStatus struct {
	Name    string `json:"name" example:"led2" doc:"Channel name"`
	Enabled bool   `json:"enabled" example:"true" doc:"Whether the user enabled the channel"`
	Level   bool   `json:"level" example:"false" doc:"Physical line level, true = high"`
	Lit     bool   `json:"lit" example:"true" doc:"Whether the LED is on, polarity applied"`
}

// StatusData is the engine state last published on the event bus.
type StatusData struct {
	Channels      []ChannelStatus `json:"channels" doc:"Channels in wire order (led2, led4, led16)"`
	Mode          string          `json:"mode" enum:"static,blink,rotate" example:"static" doc:"Running pattern"`
	RotationIndex int             `json:"rotation_index" example:"0" doc:"Next rotate step"`
	Ticks         uint64          `json:"ticks" example:"120" doc:"Ticks since start"`
	Cause         string          `json:"cause" enum:"startup,tick,toggle" example:"tick" doc:"What produced this state"`
	UpdatedAt     time.Time       `json:"updated_at" doc:"When this state was published"`
}

type StatusResponse struct {
	Body StatusData
}

// StateChangedEvent is the SSE payload for "state-changed".
type StateChangedEvent struct {
	StatusData
}

// RequestServedEvent is the SSE payload for "request-served".
type RequestServedEvent struct {
	ConnID     string  `json:"conn_id" example:"5f1c..." doc:"Connection identifier"`
	Method     string  `json:"method,omitempty" example:"GET" doc:"Request method"`
	Target     string  `json:"target,omitempty" example:"/BLINK" doc:"Request target"`
	Command    string  `json:"command,omitempty" example:"toggle_blink" doc:"Routed command"`
	Outcome    string  `json:"outcome" example:"page" doc:"How the connection ended"`
	DurationMs float64 `json:"duration_ms" example:"1.5" doc:"Time spent serving the connection"`
}
