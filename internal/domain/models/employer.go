package models

import (
	"fmt"
	"strings"
)

type SocialPlatform string

const (
	Facebook  SocialPlatform = "Facebook"
	Instagram SocialPlatform = "Instagram"
	TikTok    SocialPlatform = "TikTok"
	LinkedIn  SocialPlatform = "LinkedIn"
	Zalo      SocialPlatform = "Zalo"
	Website   SocialPlatform = "Website"
)

var SocialPlatforms = []SocialPlatform{Facebook, Instagram, TikTok, LinkedIn, Zalo, Website}

func ToSocialPlatform(s string) (SocialPlatform, error) {
	for _, platform := range SocialPlatforms {
		if strings.EqualFold(string(platform), strings.TrimSpace(s)) {
			return platform, nil
		}
	}
	return "", fmt.Errorf("invalid social platform: %q", s)
}

type SocialLink struct {
	Platform SocialPlatform `json:"platform" validate:"required"`
	URL      string         `json:"url" validate:"required,url"`
}

type EmployerProfile struct {
	ID             int          `json:"id,omitempty"`
	UserID         int          `json:"userId,omitempty"`
	CompanyName    string       `json:"companyName"`
	BusinessType   string       `json:"businessType"`
	TaxCode        string       `json:"taxCode,omitempty"`
	Address        string       `json:"address"`
	CityID         int          `json:"cityId,omitempty"`
	Description    string       `json:"description"`
	EmployeeCount  string       `json:"employeeCount,omitempty"`
	SocialLinks    []SocialLink `json:"socialLinks"`
	ContactName    string       `json:"contactName"`
	ContactPhone   string       `json:"contactPhone"`
	ContactEmail   string       `json:"contactEmail"`
	ContactAddress string       `json:"contactAddress,omitempty"`
}
