package models

import "time"

type Resume struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	FileURL   string    `json:"fileUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "Pending"
	ApplicationAccepted ApplicationStatus = "Accepted"
	ApplicationRejected ApplicationStatus = "Rejected"
)

type JobApplication struct {
	ID           int               `json:"id"`
	ResumeID     int               `json:"resumeId"`
	JobPostingID int               `json:"jobPostingId"`
	JobTitle     string            `json:"jobTitle,omitempty"`
	CoverNote    string            `json:"coverNote"`
	Status       ApplicationStatus `json:"status"`
	AppliedAt    time.Time         `json:"appliedAt"`
}

type ApplicationRequest struct {
	ResumeID     int    `json:"resumeId" validate:"gt=0"`
	JobPostingID int    `json:"jobPostingId" validate:"gt=0"`
	CoverNote    string `json:"coverNote" validate:"max=1000"`
}
