package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type DraftCleanupRepository interface {
	RemoveOlderThan(ctx context.Context, prefix string, expirationTime time.Time) (int64, error)
}

// DraftsCleaner removes onboarding drafts nobody came back to.
type DraftsCleaner struct {
	drafts               DraftCleanupRepository
	prefix               string
	cron                 *cron.Cron
	expirationTimeInDays int
}

func NewDraftsCleaner(drafts DraftCleanupRepository, prefix string, expirationInDays int) (*DraftsCleaner, error) {

	if expirationInDays <= 0 {
		return nil, errors.New("expiration in days must be greater than zero")
	}

	dc := &DraftsCleaner{
		drafts:               drafts,
		prefix:               prefix,
		cron:                 cron.New(),
		expirationTimeInDays: expirationInDays,
	}

	if _, err := dc.cron.AddFunc("0 3 * * *", dc.cleanOldDrafts); err != nil {
		return nil, err
	}

	dc.cron.Start()
	log.Infof("drafts cleaner started, expiration in days: %d", dc.expirationTimeInDays)
	return dc, nil
}

func (dc *DraftsCleaner) Stop() {
	<-dc.cron.Stop().Done()
}

func (dc *DraftsCleaner) cleanOldDrafts() {
	expirationTime := time.Now().AddDate(0, 0, -dc.expirationTimeInDays)
	rowsAffected, err := dc.drafts.RemoveOlderThan(context.Background(), dc.prefix, expirationTime)
	if err != nil {
		log.Errorf("failed to clean old drafts: %v", err)
		return
	}
	log.Infof("old drafts were cleaned at %v, affected rows: %v", time.Now(), rowsAffected)
}
