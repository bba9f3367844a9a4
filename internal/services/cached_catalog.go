package services

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/vieclam/jobportal/internal/domain/models"
)

const (
	citiesCacheKey = "cities"
	tagsCacheKey   = "tags"
)

// CachedCatalog keeps the public city and tag lists for all users.
type CachedCatalog struct {
	catalog catalogProvider
	cache   *gocache.Cache
}

func NewCachedCatalog(catalog catalogProvider, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{catalog: catalog, cache: gocache.New(ttl, 2*ttl)}
}

func (c *CachedCatalog) GetActiveCities(ctx context.Context) ([]models.City, error) {
	if value, found := c.cache.Get(citiesCacheKey); found {
		return value.([]models.City), nil
	}

	cities, err := c.catalog.GetActiveCities(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(citiesCacheKey, cities)
	return cities, nil
}

func (c *CachedCatalog) GetJobTags(ctx context.Context) ([]models.JobTag, error) {
	if value, found := c.cache.Get(tagsCacheKey); found {
		return value.([]models.JobTag), nil
	}

	tags, err := c.catalog.GetJobTags(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(tagsCacheKey, tags)
	return tags, nil
}

// FindCity matches a city by name ignoring case and surrounding spaces.
func (c *CachedCatalog) FindCity(ctx context.Context, name string) (models.City, bool, error) {
	cities, err := c.GetActiveCities(ctx)
	if err != nil {
		return models.City{}, false, err
	}
	for _, city := range cities {
		if strings.EqualFold(city.Name, strings.TrimSpace(name)) {
			return city, true, nil
		}
	}
	return models.City{}, false, nil
}
