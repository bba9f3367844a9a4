package jobportal

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vieclam/jobportal/internal/domain/models"
)

func (c *Client) GetAdvertisementPackages(ctx context.Context) ([]models.AdvertisementPackage, error) {
	var packages []models.AdvertisementPackage
	err := c.get(ctx, "/api/advertisement/packages", nil, &packages)
	return packages, err
}

func (c *Client) CreateAdvertisement(ctx context.Context, request models.AdvertisementRequest) (models.Advertisement, error) {

	if err := validate.Struct(request); err != nil {
		return models.Advertisement{}, fmt.Errorf("invalid advertisement: %w", err)
	}

	var created models.Advertisement
	err := c.post(ctx, "/api/advertisement", request, &created)
	return created, err
}

func (c *Client) GetActiveAdvertisements(ctx context.Context, position models.AdvertisementPosition) ([]models.Advertisement, error) {
	var query url.Values
	if position != "" {
		query = url.Values{"position": []string{string(position)}}
	}

	var ads []models.Advertisement
	err := c.get(ctx, "/api/advertisement/active", query, &ads)
	return ads, err
}
