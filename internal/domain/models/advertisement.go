package models

import "time"

type AdvertisementPosition string

const (
	PositionTop     AdvertisementPosition = "Top"
	PositionSidebar AdvertisementPosition = "Sidebar"
	PositionBanner  AdvertisementPosition = "Banner"
)

type AdvertisementPackage struct {
	ID           int                   `json:"id"`
	Name         string                `json:"name"`
	Price        float64               `json:"price"`
	DurationDays int                   `json:"durationDays"`
	Position     AdvertisementPosition `json:"position"`
}

type Advertisement struct {
	ID                   int       `json:"id"`
	EmployerID           int       `json:"employerId"`
	PackageID            int       `json:"packageId"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	ImageURL             string    `json:"imageUrl"`
	PaymentTransactionID string    `json:"paymentTransactionId"`
	StartDate            time.Time `json:"startDate"`
	EndDate              time.Time `json:"endDate"`
}

type AdvertisementRequest struct {
	EmployerID           int    `json:"employerId" validate:"gt=0"`
	PackageID            int    `json:"packageId" validate:"gt=0"`
	Title                string `json:"title" validate:"required,max=100"`
	Description          string `json:"description" validate:"required"`
	ImageURL             string `json:"imageUrl" validate:"omitempty,url"`
	PaymentTransactionID string `json:"paymentTransactionId" validate:"required"`
}
