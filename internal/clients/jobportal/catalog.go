package jobportal

import (
	"context"

	"github.com/vieclam/jobportal/internal/domain/models"
)

func (c *Client) GetActiveCities(ctx context.Context) ([]models.City, error) {
	var cities []models.City
	err := c.get(ctx, "/api/city/active", nil, &cities)
	return cities, err
}

func (c *Client) GetJobTags(ctx context.Context) ([]models.JobTag, error) {
	var tags []models.JobTag
	err := c.get(ctx, "/api/jobtag", nil, &tags)
	return tags, err
}
