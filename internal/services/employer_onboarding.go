package services

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
	"github.com/vieclam/jobportal/internal/domain/events"
	"github.com/vieclam/jobportal/internal/domain/models"
	"github.com/vieclam/jobportal/internal/logger"
	"github.com/vieclam/jobportal/internal/onboarding"
)

const DraftKeyPrefix = "draft:"

type draftStore interface {
	Save(ctx context.Context, id string, data []byte) error
	Load(ctx context.Context, id string) ([]byte, error)
	Remove(ctx context.Context, id string) error
}

type ProfileCreator interface {
	CreateEmployerProfile(ctx context.Context, profile models.EmployerProfile) (models.EmployerProfile, error)
}

// EmployerOnboarding keeps wizard progress between steps and performs the
// single create-profile call at the end.
type EmployerOnboarding struct {
	drafts draftStore
	bus    EventBus.Bus
}

func NewEmployerOnboarding(drafts draftStore, bus EventBus.Bus) *EmployerOnboarding {
	return &EmployerOnboarding{drafts: drafts, bus: bus}
}

func (s *EmployerOnboarding) Resume(ctx context.Context, chatID int64) (*onboarding.Wizard, error) {
	wizard := onboarding.NewWizard()

	data, err := s.drafts.Load(ctx, draftKey(chatID))
	if err != nil || data == nil {
		return wizard, err
	}

	if err = json.Unmarshal(data, wizard); err != nil {
		log.Warnf("dropping unreadable onboarding draft of chat %d: %v", chatID, err)
		return onboarding.NewWizard(), s.drafts.Remove(ctx, draftKey(chatID))
	}
	return wizard, nil
}

func (s *EmployerOnboarding) SaveProgress(ctx context.Context, chatID int64, wizard *onboarding.Wizard) error {
	data, err := json.Marshal(wizard)
	if err != nil {
		return err
	}
	return s.drafts.Save(ctx, draftKey(chatID), data)
}

func (s *EmployerOnboarding) Submit(ctx context.Context, chatID int64, creator ProfileCreator,
	wizard *onboarding.Wizard) (models.EmployerProfile, error) {

	profile, err := wizard.Profile()
	if err != nil {
		return models.EmployerProfile{}, err
	}

	created, err := creator.CreateEmployerProfile(ctx, profile)
	if err != nil {
		return models.EmployerProfile{}, err
	}

	if err = s.drafts.Remove(ctx, draftKey(chatID)); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to remove onboarding draft: %v", err)
	}

	s.bus.Publish(events.ProfileCreatedTopic, events.ProfileCreated{ChatID: chatID, Profile: created})
	return created, nil
}

func draftKey(chatID int64) string {
	return DraftKeyPrefix + strconv.FormatInt(chatID, 10)
}
