package models

import "time"

// AcquireResponse carries canonical text produced by a source acquisition
type AcquireResponse struct {
	Success   bool   `json:"success"`
	Mode      string `json:"mode"`
	Text      string `json:"text"`
	Title     string `json:"title,omitempty"`
	Pages     int    `json:"pages,omitempty"`
	RequestID string `json:"request_id"`
}

// TailorResponse represents a successful tailoring run
type TailorResponse struct {
	Success        bool             `json:"success"`
	TailoredResume string           `json:"tailored_resume"`
	Result         *TailoringResult `json:"result"`
	ProcessingTime time.Duration    `json:"processing_time"`
	RequestID      string           `json:"request_id"`
}

// HistoryResponse lists persisted results, newest first
type HistoryResponse struct {
	Success   bool       `json:"success"`
	History   HistoryLog `json:"history"`
	Count     int        `json:"count"`
	RequestID string     `json:"request_id"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
