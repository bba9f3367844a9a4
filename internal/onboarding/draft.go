package onboarding

import "github.com/vieclam/jobportal/internal/domain/models"

type BusinessInfo struct {
	CompanyName  string `json:"companyName" validate:"required,max=200"`
	BusinessType string `json:"businessType" validate:"required,max=100"`
	TaxCode      string `json:"taxCode" validate:"omitempty,numeric,min=10,max=14"`
}

type EstablishmentInfo struct {
	Address       string `json:"address" validate:"required,max=300"`
	CityID        int    `json:"cityId" validate:"gt=0"`
	Description   string `json:"description" validate:"required,max=2000"`
	EmployeeCount string `json:"employeeCount" validate:"omitempty,oneof=1-10 11-50 51-200 200+"`
}

type SocialLinks struct {
	Links []models.SocialLink `json:"links" validate:"max=6,dive"`
}

type ContactInfo struct {
	Name    string `json:"name" validate:"required,max=100"`
	Phone   string `json:"phone" validate:"required,vnphone"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"max=300"`
}

// Draft is the aggregate carried from page to page until the final submit.
type Draft struct {
	Business      BusinessInfo      `json:"business"`
	Establishment EstablishmentInfo `json:"establishment"`
	Social        SocialLinks       `json:"social"`
	Contact       ContactInfo       `json:"contact"`
}

// withSection copies only the section owned by step from incoming, so a page
// can never wipe what earlier pages collected.
func (d Draft) withSection(step Step, incoming Draft) Draft {
	switch step {
	case StepBusinessInfo:
		d.Business = incoming.Business
	case StepEstablishmentInfo:
		d.Establishment = incoming.Establishment
	case StepSocialLinks:
		d.Social.Links = append([]models.SocialLink(nil), incoming.Social.Links...)
	case StepContactInfo:
		d.Contact = incoming.Contact
	}
	return d
}

func (d Draft) section(step Step) any {
	switch step {
	case StepBusinessInfo:
		return d.Business
	case StepEstablishmentInfo:
		return d.Establishment
	case StepSocialLinks:
		return d.Social
	case StepContactInfo:
		return d.Contact
	default:
		return nil
	}
}

func (d Draft) Profile() models.EmployerProfile {
	links := d.Social.Links
	if links == nil {
		links = []models.SocialLink{}
	}
	return models.EmployerProfile{
		CompanyName:    d.Business.CompanyName,
		BusinessType:   d.Business.BusinessType,
		TaxCode:        d.Business.TaxCode,
		Address:        d.Establishment.Address,
		CityID:         d.Establishment.CityID,
		Description:    d.Establishment.Description,
		EmployeeCount:  d.Establishment.EmployeeCount,
		SocialLinks:    links,
		ContactName:    d.Contact.Name,
		ContactPhone:   d.Contact.Phone,
		ContactEmail:   d.Contact.Email,
		ContactAddress: d.Contact.Address,
	}
}
