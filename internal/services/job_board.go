package services

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/vieclam/jobportal/internal/clients/jobportal"
	"github.com/vieclam/jobportal/internal/domain/models"
	"github.com/vieclam/jobportal/internal/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	BatchSize = 50
	PageSize  = 6
)

type jobSearcher interface {
	SearchJobPostings(ctx context.Context, parameters jobportal.JobSearchParameters) (jobportal.JobPostingPage, error)
}

type catalogProvider interface {
	GetActiveCities(ctx context.Context) ([]models.City, error)
	GetJobTags(ctx context.Context) ([]models.JobTag, error)
}

type JobQuery struct {
	Keyword string
	CityID  int
}

type ListingPage struct {
	Jobs          []models.JobPosting
	Page          int
	TotalPages    int
	TotalFiltered int
	// Truncated is set when the server has more matches than the fetched
	// batch, so the filtered counts are lower bounds.
	Truncated bool
}

// JobBoard fetches one batch of postings with the server-side filters and runs
// category, salary and page selection over it in memory.
type JobBoard struct {
	jobs       jobSearcher
	batch      []models.JobPosting
	serverSize int
}

func NewJobBoard(jobs jobSearcher) *JobBoard {
	return &JobBoard{jobs: jobs}
}

func (b *JobBoard) Refresh(ctx context.Context, query JobQuery) error {

	result, err := b.jobs.SearchJobPostings(ctx, jobportal.JobSearchParameters{
		Keyword:  query.Keyword,
		CityID:   query.CityID,
		Status:   models.JobStatusActive,
		Page:     1,
		PageSize: BatchSize,
	})
	if err != nil {
		return err
	}

	b.batch = result.Items
	b.serverSize = result.TotalCount
	log.Debugf("fetched %d of %d job postings for %+v", len(b.batch), b.serverSize, query)
	return nil
}

// View re-runs the whole pipeline; page is clamped to the available range.
func (b *JobBoard) View(filter ListingFilter, page int) ListingPage {

	filtered := filter.Apply(b.batch)
	metrics.ListingResultSize.Observe(float64(len(filtered)))

	totalPages := TotalPages(len(filtered), PageSize)
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	return ListingPage{
		Jobs:          Paginate(filtered, page, PageSize),
		Page:          page,
		TotalPages:    totalPages,
		TotalFiltered: len(filtered),
		Truncated:     b.isTruncated(),
	}
}

func (b *JobBoard) isTruncated() bool {
	if b.serverSize > 0 {
		return b.serverSize > len(b.batch)
	}
	return len(b.batch) >= BatchSize
}

type FilterOptions struct {
	Cities []models.City
	Tags   []models.JobTag
}

// LoadFilterOptions fetches cities and tags in parallel. Cities are required;
// a tag failure only leaves the tag list empty.
func LoadFilterOptions(ctx context.Context, catalog catalogProvider) (FilterOptions, error) {

	var options FilterOptions
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		cities, err := catalog.GetActiveCities(groupCtx)
		if err != nil {
			return err
		}
		options.Cities = cities
		return nil
	})

	group.Go(func() error {
		tags, err := catalog.GetJobTags(groupCtx)
		if err != nil {
			log.Warnf("failed to load job tags: %v", err)
			return nil
		}
		options.Tags = tags
		return nil
	})

	if err := group.Wait(); err != nil {
		return FilterOptions{}, err
	}
	return options, nil
}
