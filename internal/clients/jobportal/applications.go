package jobportal

import (
	"context"
	"fmt"

	"github.com/vieclam/jobportal/internal/domain/models"
)

func (c *Client) GetMyResumes(ctx context.Context) ([]models.Resume, error) {
	var resumes []models.Resume
	err := c.get(ctx, "/api/resume/my", nil, &resumes)
	return resumes, err
}

func (c *Client) ApplyForJob(ctx context.Context, request models.ApplicationRequest) (models.JobApplication, error) {

	if err := validate.Struct(request); err != nil {
		return models.JobApplication{}, fmt.Errorf("invalid application: %w", err)
	}

	var created models.JobApplication
	err := c.post(ctx, "/api/jobapplication", request, &created)
	return created, err
}

func (c *Client) GetMyApplications(ctx context.Context) ([]models.JobApplication, error) {
	var applications []models.JobApplication
	err := c.get(ctx, "/api/jobapplication/my", nil, &applications)
	return applications, err
}
