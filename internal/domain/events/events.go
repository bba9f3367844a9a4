package events

import "github.com/vieclam/jobportal/internal/domain/models"

var SessionExpiredTopic = "SessionExpiredEvent"

type SessionExpired struct {
	ChatID int64
}

var ProfileCreatedTopic = "ProfileCreatedEvent"

type ProfileCreated struct {
	ChatID  int64
	Profile models.EmployerProfile
}

var ApplicationSubmittedTopic = "ApplicationSubmittedEvent"

type ApplicationSubmitted struct {
	ChatID       int64
	JobPostingID int
}
