package models

// SystemdServiceStatus contains the status information for a systemd unit.
type SystemdServiceStatus struct {
	Service string `json:"service" example:"blinknode.service" doc:"Unit name"`
	Status  string `json:"status" example:"active" doc:"Unit ActiveState (active, inactive, failed, etc.)"`
}

// SystemdServiceStatusResponse wraps SystemdServiceStatus for API responses.
type SystemdServiceStatusResponse struct {
	Body SystemdServiceStatus
}
