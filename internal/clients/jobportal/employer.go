package jobportal

import (
	"context"

	"github.com/vieclam/jobportal/internal/domain/models"
)

func (c *Client) CreateEmployerProfile(ctx context.Context, profile models.EmployerProfile) (models.EmployerProfile, error) {
	var created models.EmployerProfile
	err := c.post(ctx, "/api/employer/profile", profile, &created)
	return created, err
}

func (c *Client) GetEmployerProfile(ctx context.Context) (models.EmployerProfile, error) {
	var profile models.EmployerProfile
	err := c.get(ctx, "/api/employer/profile", nil, &profile)
	return profile, err
}
