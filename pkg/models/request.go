package models

// FetchJobPostingRequest asks for a remote job posting to be fetched and sanitized
type FetchJobPostingRequest struct {
	URL string `json:"url"`
}

// AcquireSourceRequest runs any acquisition mode. Data carries base64 document bytes.
type AcquireSourceRequest struct {
	Field string `json:"field" validate:"omitempty,oneof=resume job_posting"`
	Mode  string `json:"mode" validate:"required,source_mode"`
	Text  string `json:"text,omitempty"`
	URL   string `json:"url,omitempty"`
	Data  []byte `json:"data,omitempty"`
}

// TailorRequest is the payload of the tailoring endpoint. Either a pre-composed
// CurrentExperiences block or a structured Experience record is accepted.
type TailorRequest struct {
	ResumeText         string            `json:"resume_text" validate:"notblank_text"`
	JobPosting         string            `json:"job_posting" validate:"notblank_text"`
	CurrentExperiences string            `json:"current_experiences,omitempty"`
	Experience         *ExperienceRecord `json:"experience,omitempty"`
}
