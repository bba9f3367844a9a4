package onboarding

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vieclam/jobportal/internal/domain/models"
)

func fillAllSteps(t *testing.T, w *Wizard) {
	d := w.Draft()
	d.Business = BusinessInfo{CompanyName: "Acme", BusinessType: "F&B"}
	assert.NoError(t, w.Next(d))

	d = w.Draft()
	d.Establishment = EstablishmentInfo{Address: "12 Lý Thái Tổ", CityID: 1, Description: "Chuỗi cà phê"}
	assert.NoError(t, w.Next(d))

	d = w.Draft()
	d.Social.Links = append(d.Social.Links, models.SocialLink{Platform: models.Facebook, URL: "https://facebook.com/acme"})
	assert.NoError(t, w.Next(d))

	d = w.Draft()
	d.Contact = ContactInfo{Name: "Nguyễn An", Phone: "0912345678", Email: "an@acme.vn"}
	assert.NoError(t, w.Next(d))
}

func Test_Wizard_WhenAllStepsCompleted_ShouldAssembleProfile(t *testing.T) {

	assert := assert.New(t)

	w := NewWizard()
	fillAllSteps(t, w)

	assert.True(w.Done())
	profile, err := w.Profile()
	assert.NoError(err)
	assert.Equal("Acme", profile.CompanyName)
	assert.Equal(1, profile.CityID)
	assert.Equal([]models.SocialLink{{Platform: models.Facebook, URL: "https://facebook.com/acme"}}, profile.SocialLinks)
	assert.Equal("0912345678", profile.ContactPhone)
}

func Test_Wizard_WhenLaterStepSendsEmptyEarlierSections_ShouldKeepThem(t *testing.T) {

	assert := assert.New(t)

	w := NewWizard()
	d := w.Draft()
	d.Business = BusinessInfo{CompanyName: "Acme", BusinessType: "Bán lẻ"}
	assert.NoError(w.Next(d))

	// the establishment page only knows its own fields
	assert.NoError(w.Next(Draft{Establishment: EstablishmentInfo{Address: "1 Trần Phú", CityID: 2, Description: "Cửa hàng"}}))

	assert.Equal(StepSocialLinks, w.Step())
	assert.Equal("Acme", w.Draft().Business.CompanyName)
	assert.Equal(2, w.Draft().Establishment.CityID)
}

func Test_Wizard_WhenStepInvalid_ShouldStayAndReportFields(t *testing.T) {

	assert := assert.New(t)

	w := NewWizard()
	err := w.Next(Draft{Business: BusinessInfo{TaxCode: "abc"}})

	var validationErr *ValidationError
	assert.ErrorAs(err, &validationErr)
	assert.Equal(StepBusinessInfo, w.Step())

	fields := map[string]string{}
	for _, field := range validationErr.Fields {
		fields[field.Field] = field.Message
	}
	assert.Equal("Tên doanh nghiệp không được để trống", fields["CompanyName"])
	assert.Contains(fields, "BusinessType")
	assert.Contains(fields, "TaxCode")
}

func Test_Wizard_WhenSocialLinkInvalid_ShouldReject(t *testing.T) {

	w := NewWizard()
	w.step = StepSocialLinks

	err := w.Next(Draft{Social: SocialLinks{Links: []models.SocialLink{{Platform: models.Zalo, URL: "not a url"}}}})
	assert.Error(t, err)
	assert.Equal(t, StepSocialLinks, w.Step())
	assert.NoError(t, w.Next(Draft{}))
}

func Test_Wizard_Back_ShouldKeepTypedDataOfBothSteps(t *testing.T) {

	assert := assert.New(t)

	w := NewWizard()
	assert.NoError(w.Next(Draft{Business: BusinessInfo{CompanyName: "Acme", BusinessType: "Sự kiện"}}))

	partial := w.Draft()
	partial.Establishment.Address = "chưa xong"
	assert.True(w.Back(partial))

	assert.Equal(StepBusinessInfo, w.Step())
	assert.Equal("chưa xong", w.Draft().Establishment.Address)
	assert.Equal("Acme", w.Draft().Business.CompanyName)
	assert.False(w.Back(w.Draft()))
}

func Test_Wizard_Back_WhenDone_ShouldReopenLastStep(t *testing.T) {

	assert := assert.New(t)

	w := NewWizard()
	w.step = StepContactInfo
	assert.NoError(w.Next(Draft{Contact: ContactInfo{Name: "An", Phone: "0912345678", Email: "an@acme.vn"}}))
	assert.True(w.Done())

	assert.True(w.Back(w.Draft()))
	assert.False(w.Done())
	assert.Equal(StepContactInfo, w.Step())
	assert.Equal("An", w.Draft().Contact.Name)
}

func Test_Wizard_Profile_WhenNotFinished_ShouldFail(t *testing.T) {
	_, err := NewWizard().Profile()
	assert.ErrorIs(t, err, ErrNotFinished)
}

func Test_Wizard_ContactPhone_ShouldAcceptVietnameseFormats(t *testing.T) {

	assert := assert.New(t)

	for _, phone := range []string{"0912345678", "+84912345678", "091 234 5678"} {
		assert.NoError(validateSection(ContactInfo{Name: "An", Phone: phone, Email: "a@b.vn"}), phone)
	}
	for _, phone := range []string{"12345", "0212345678", "+1912345678"} {
		assert.Error(validateSection(ContactInfo{Name: "An", Phone: phone, Email: "a@b.vn"}), phone)
	}
}

func Test_Wizard_SaveAndLoad_ShouldResumeAtSameStep(t *testing.T) {

	assert := assert.New(t)

	w := NewWizard()
	assert.NoError(w.Next(Draft{Business: BusinessInfo{CompanyName: "Acme", BusinessType: "F&B"}}))

	data, err := json.Marshal(w)
	assert.NoError(err)

	restored := NewWizard()
	assert.NoError(json.Unmarshal(data, restored))
	assert.Equal(StepEstablishmentInfo, restored.Step())
	assert.Equal("Acme", restored.Draft().Business.CompanyName)

	assert.Error(json.Unmarshal([]byte(`{"step":9}`), restored))
}
