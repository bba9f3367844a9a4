package jobportal

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vieclam/jobportal/internal/domain/models"
)

type JobPostingPage struct {
	Items      []models.JobPosting `json:"items"`
	TotalCount int                 `json:"totalCount"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type countResponse struct {
	Count int `json:"count"`
}

func (c *Client) SearchJobPostings(ctx context.Context, parameters JobSearchParameters) (JobPostingPage, error) {

	if err := parameters.Validate(); err != nil {
		return JobPostingPage{}, fmt.Errorf("invalid parameters: %w", err)
	}

	var page JobPostingPage
	if err := c.get(ctx, "/api/jobposting", parameters.ToUrlParams(), &page); err != nil {
		return JobPostingPage{}, err
	}
	return page, nil
}

func (c *Client) GetJobPosting(ctx context.Context, id int) (models.JobPosting, error) {
	var job models.JobPosting
	err := c.get(ctx, "/api/jobposting/"+pathID(id), nil, &job)
	return job, err
}

func (c *Client) CreateJobPosting(ctx context.Context, draft models.JobPostingDraft) (models.JobPosting, error) {

	if err := validate.Struct(draft); err != nil {
		return models.JobPosting{}, fmt.Errorf("invalid job posting: %w", err)
	}

	var created models.JobPosting
	err := c.post(ctx, "/api/jobposting", draft, &created)
	return created, err
}

func (c *Client) GetPendingJobPostings(ctx context.Context) ([]models.JobPosting, error) {
	var jobs []models.JobPosting
	err := c.get(ctx, "/api/jobposting/pending", nil, &jobs)
	return jobs, err
}

func (c *Client) GetEmployerJobPostings(ctx context.Context, employerID int) ([]models.JobPosting, error) {
	var jobs []models.JobPosting
	err := c.get(ctx, "/api/jobposting/employer/"+pathID(employerID), nil, &jobs)
	return jobs, err
}

func (c *Client) CountActiveJobPostings(ctx context.Context) (int, error) {
	var response countResponse
	query := url.Values{"status": []string{string(models.JobStatusActive)}}
	err := c.get(ctx, "/api/jobposting/count", query, &response)
	return response.Count, err
}

func (c *Client) ApproveJobPosting(ctx context.Context, id int) error {
	return c.put(ctx, "/api/jobposting/"+pathID(id)+"/approve", nil, nil)
}

func (c *Client) RejectJobPosting(ctx context.Context, id int, reason string) error {
	return c.patch(ctx, "/api/jobposting/"+pathID(id)+"/reject", rejectRequest{Reason: reason}, nil)
}

func (c *Client) DeleteJobPosting(ctx context.Context, id int) error {
	return c.delete(ctx, "/api/jobposting/"+pathID(id))
}
