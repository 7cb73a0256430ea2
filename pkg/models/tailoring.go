package models

import "strings"

// ExperienceRecord is the structured form of the new work experience entry.
// The zero value is well-formed.
type ExperienceRecord struct {
	Company    string   `json:"company"`
	JobTitle   string   `json:"job_title"`
	Location   string   `json:"location"`
	TimePeriod string   `json:"time_period"`
	Bullets    []string `json:"bullets"`
}

// HasDetails reports whether at least one bullet carries text
func (r ExperienceRecord) HasDetails() bool {
	for _, b := range r.Bullets {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}

// TailoringRequest is the canonical unit of work handed to the prompt composer
type TailoringRequest struct {
	ResumeText      string
	JobPostingText  string
	ExperienceBlock string
}

// TailoringResult is one successful tailoring run. The JSON names are the
// persisted history format.
type TailoringResult struct {
	ID        string `json:"id"`
	JobTitle  string `json:"jobTitle"`
	HTML      string `json:"html"`
	Timestamp int64  `json:"timestamp"`
}

// HistoryLog holds results newest first
type HistoryLog []TailoringResult

// Find returns the entry with the given id
func (l HistoryLog) Find(id string) (TailoringResult, bool) {
	for _, r := range l {
		if r.ID == id {
			return r, true
		}
	}
	return TailoringResult{}, false
}
