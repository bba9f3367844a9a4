package jobportal

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/vieclam/jobportal/internal/domain/models"
)

const maxPageSize = 100

type JobSearchParameters struct {
	Keyword  string
	CityID   int
	Status   models.JobStatus
	Page     int
	PageSize int
}

func (s JobSearchParameters) Validate() error {

	if s.Page < 1 {
		return fmt.Errorf("page must be positive")
	}

	if s.PageSize < 1 || s.PageSize > maxPageSize {
		return fmt.Errorf("page size must be between 1 and %d", maxPageSize)
	}

	if s.CityID < 0 {
		return fmt.Errorf("city id must be non-negative")
	}

	return nil
}

func (s JobSearchParameters) ToUrlParams() url.Values {

	params := url.Values{}
	if s.Keyword != "" {
		params.Add("keyword", s.Keyword)
	}

	if s.CityID != 0 {
		params.Add("cityId", strconv.Itoa(s.CityID))
	}

	if s.Status != "" {
		params.Add("status", string(s.Status))
	}

	params.Add("page", strconv.Itoa(s.Page))
	params.Add("pageSize", strconv.Itoa(s.PageSize))
	return params
}
