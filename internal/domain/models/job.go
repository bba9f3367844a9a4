package models

import (
	"fmt"
	"strings"
	"time"
)

type JobStatus string

const (
	JobStatusPending  JobStatus = "Pending"
	JobStatusActive   JobStatus = "Active"
	JobStatusRejected JobStatus = "Rejected"
	JobStatusClosed   JobStatus = "Closed"
)

type JobPosting struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	CompanyName  string    `json:"companyName"`
	EmployerID   int       `json:"employerId"`
	HourlyRate   float64   `json:"hourlyRate"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	PostedAt     time.Time `json:"postedAt"`
	CityID       int       `json:"cityId"`
	CityName     string    `json:"cityName"`
	Location     string    `json:"location"`
	Category     string    `json:"category"`
	Status       JobStatus `json:"status"`
	Requirements string    `json:"requirements"`
}

// Salary is the display form the listing filters parse, e.g. "20,000/giờ".
func (j JobPosting) Salary() string {
	return FormatHourlyRate(j.HourlyRate)
}

func (j JobPosting) Place() string {
	if j.Location != "" && j.CityName != "" {
		return j.Location + ", " + j.CityName
	}
	if j.CityName != "" {
		return j.CityName
	}
	return j.Location
}

func (j JobPosting) Shift() string {
	if j.StartTime == "" && j.EndTime == "" {
		return ""
	}
	return j.StartTime + " - " + j.EndTime
}

type JobPostingDraft struct {
	Title        string  `json:"title" validate:"required,max=200"`
	HourlyRate   float64 `json:"hourlyRate" validate:"gt=0"`
	StartTime    string  `json:"startTime" validate:"required"`
	EndTime      string  `json:"endTime" validate:"required"`
	CityID       int     `json:"cityId" validate:"gt=0"`
	Location     string  `json:"location"`
	JobTagID     int     `json:"jobTagId,omitempty"`
	Requirements string  `json:"requirements" validate:"required"`
}

// FormatHourlyRate renders 20000 as "20,000/giờ".
func FormatHourlyRate(rate float64) string {
	return FormatAmount(rate) + "/giờ"
}

func FormatAmount(amount float64) string {
	return groupThousands(int64(amount))
}

func groupThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + b.String()
}
