package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
	"github.com/vieclam/jobportal/internal/clients/jobportal"
	"github.com/vieclam/jobportal/internal/domain/models"
	"github.com/vieclam/jobportal/internal/logger"
	"github.com/vieclam/jobportal/internal/onboarding"
	"github.com/vieclam/jobportal/internal/services"
)

const onboardingCommandName = "Hồ sơ nhà tuyển dụng"

const (
	keepButton   = "Giữ nguyên"
	submitButton = "Gửi hồ sơ"
)

var (
	businessTypeSuggestions = []string{"Nhà hàng", "Quán cà phê", "Cửa hàng bán lẻ", "Tổ chức sự kiện"}
	employeeCountOptions    = []string{"1-10", "11-50", "51-200", "200+"}
)

type onboardingService interface {
	Resume(ctx context.Context, chatID int64) (*onboarding.Wizard, error)
	SaveProgress(ctx context.Context, chatID int64, wizard *onboarding.Wizard) error
	Submit(ctx context.Context, chatID int64, creator services.ProfileCreator,
		wizard *onboarding.Wizard) (models.EmployerProfile, error)
}

type employerProfileAPI interface {
	services.ProfileCreator
	GetEmployerProfile(ctx context.Context) (models.EmployerProfile, error)
}

// onboardingCommand drives the four-step employer wizard. Every finished step
// is stored as a draft, so the user can leave and continue later.
type onboardingCommand struct {
	*formCommand
	service    onboardingService
	portal     employerProfileAPI
	cities     cityCatalog
	wizard     *onboarding.Wizard
	draft      onboarding.Draft
	fieldIndex int
	stepInputs map[onboarding.Step][]inputHandler
	review     inputHandler
}

func newOnboardingCommand(ctx context.Context, api apiInterface, chatID int64, service onboardingService,
	portal employerProfileAPI, cities cityCatalog) (*onboardingCommand, error) {

	profile, err := portal.GetEmployerProfile(ctx)
	if err == nil {
		return nil, &profileExistsError{companyName: profile.CompanyName}
	}
	if !jobportal.IsNotFound(err) {
		return nil, err
	}

	wizard, err := service.Resume(ctx, chatID)
	if err != nil {
		return nil, err
	}

	cmd := &onboardingCommand{
		formCommand: newFormCommand(ctx, api, chatID, "onboarding"),
		service:     service,
		portal:      portal,
		cities:      cities,
		wizard:      wizard,
		draft:       wizard.Draft(),
	}
	cmd.buildInputs()
	return cmd, nil
}

func (c *onboardingCommand) buildInputs() {

	d := &c.draft
	next := func() { c.fieldIndex++ }

	companyName := c.draftTextInput("Nhập tên doanh nghiệp:", &d.Business.CompanyName, false, next)
	businessType := c.draftTextInput("Loại hình kinh doanh:", &d.Business.BusinessType, false, next)
	businessType.AddButtons(businessTypeSuggestions...)
	taxCode := c.draftTextInput("Mã số thuế (10-14 chữ số):", &d.Business.TaxCode, true, next)

	address := c.draftTextInput("Địa chỉ cơ sở kinh doanh:", &d.Establishment.Address, false, next)
	city := newCityInput(c.ctx, c.chatID, "Chọn thành phố của cơ sở:", c.cities, func(city models.City) {
		d.Establishment.CityID = city.ID
		next()
	})
	description := c.draftTextInput("Giới thiệu ngắn về doanh nghiệp:", &d.Establishment.Description, false, next)
	employeeCount := newChoiceInput(c.chatID, "Quy mô nhân sự:", employeeCountOptions, func(index int) {
		d.Establishment.EmployeeCount = employeeCountOptions[index]
		next()
	})

	social := newSocialLinksInput(c.chatID, func() []models.SocialLink { return d.Social.Links },
		func(links []models.SocialLink) {
			d.Social.Links = links
			next()
		})

	contactName := c.draftTextInput("Họ tên người liên hệ:", &d.Contact.Name, false, next)
	phone := c.draftTextInput("Số điện thoại liên hệ:", &d.Contact.Phone, false, next)
	email := c.draftTextInput("Email liên hệ:", &d.Contact.Email, false, next)
	contactAddress := c.draftTextInput("Địa chỉ liên hệ:", &d.Contact.Address, true, next)

	c.stepInputs = map[onboarding.Step][]inputHandler{
		onboarding.StepBusinessInfo:      {companyName, businessType, taxCode},
		onboarding.StepEstablishmentInfo: {address, city, description, employeeCount},
		onboarding.StepSocialLinks:       {social},
		onboarding.StepContactInfo:       {contactName, phone, email, contactAddress},
	}

	c.review = newChoiceInput(c.chatID, "", []string{submitButton}, func(int) { c.submit() })
}

func (c *onboardingCommand) Run() {
	c.sendCurrent(true)
}

func (c *onboardingCommand) OnUserInput(input string) {

	if strings.TrimSpace(input) == backButton {
		c.back()
		return
	}

	if c.wizard.Done() {
		_, _ = sendWithLogError(c.api, c.review.HandleInput(input))
		return
	}

	inputs := c.stepInputs[c.wizard.Step()]
	previousIndex := c.fieldIndex
	msg := inputs[c.fieldIndex].HandleInput(input)

	if previousIndex == c.fieldIndex {
		_, _ = sendWithLogError(c.api, msg)
		return
	}

	if c.fieldIndex < len(inputs) {
		c.sendCurrent(false)
		return
	}

	c.completeStep()
}

func (c *onboardingCommand) completeStep() {

	c.fieldIndex = 0
	if err := c.wizard.Next(c.draft); err != nil {
		_, _ = sendWithLogError(c.api, botApi.NewMessage(c.chatID, errorText(err)))
		c.sendCurrent(false)
		return
	}

	c.saveProgress()
	c.draft = c.wizard.Draft()
	c.sendCurrent(true)
}

func (c *onboardingCommand) back() {

	if c.fieldIndex > 0 && !c.wizard.Done() {
		c.fieldIndex--
		c.sendCurrent(false)
		return
	}

	if !c.wizard.Back(c.draft) {
		_, _ = sendWithLogError(c.api, botApi.NewMessage(c.chatID, "Đây là bước đầu tiên."))
		c.sendCurrent(false)
		return
	}

	c.saveProgress()
	c.draft = c.wizard.Draft()
	c.fieldIndex = 0
	c.sendCurrent(true)
}

func (c *onboardingCommand) submit() {

	profile, err := c.service.Submit(c.ctx, c.chatID, c.portal, c.wizard)
	if err != nil {
		c.end(errorText(err) + "\nBản nháp đã được lưu, chọn «" + onboardingCommandName + "» để thử lại.")
		return
	}

	c.finish("Tạo hồ sơ «" + profile.CompanyName + "» thành công! Bạn có thể bắt đầu đăng tin tuyển dụng.")
}

func (c *onboardingCommand) sendCurrent(withHeader bool) {

	if c.wizard.Done() {
		msg := botApi.NewMessage(c.chatID, "Kiểm tra lại thông tin trước khi gửi:\n\n"+profileSummary(c.wizard.Draft()))
		msg.ReplyMarkup = keyboardWithBack(submitButton)
		_, _ = sendWithLogError(c.api, msg)
		return
	}

	if withHeader {
		header := fmt.Sprintf("Bước %d/%d: %s", c.wizard.StepNumber(), c.wizard.StepCount(), c.wizard.Step().Title())
		_, _ = sendWithLogError(c.api, botApi.NewMessage(c.chatID, header))
	}

	prompt := c.stepInputs[c.wizard.Step()][c.fieldIndex].InitMessage()
	if msg, ok := prompt.(botApi.MessageConfig); ok {
		if markup, ok := msg.ReplyMarkup.(botApi.ReplyKeyboardMarkup); ok {
			markup.Keyboard = withBackButton(markup.Keyboard)
			msg.ReplyMarkup = markup
		}
		prompt = msg
	}
	_, _ = sendWithLogError(c.api, prompt)
}

func (c *onboardingCommand) saveProgress() {
	if err := c.service.SaveProgress(c.ctx, c.chatID, c.wizard); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to save onboarding draft: %v", err)
	}
}

func (c *onboardingCommand) SaveState() ([]byte, error) {
	return json.Marshal(&struct {
		FieldIndex int
		Draft      onboarding.Draft
	}{
		FieldIndex: c.fieldIndex,
		Draft:      c.draft,
	})
}

func (c *onboardingCommand) LoadState(data []byte) error {

	aux := &struct {
		FieldIndex int
		Draft      onboarding.Draft
	}{}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	if inputs := c.stepInputs[c.wizard.Step()]; aux.FieldIndex < 0 || aux.FieldIndex >= len(inputs) {
		aux.FieldIndex = 0
	}
	c.fieldIndex = aux.FieldIndex
	c.draft = aux.Draft
	return nil
}

// draftTextInput edits one string field of the draft and offers to keep the
// value entered earlier.
func (c *onboardingCommand) draftTextInput(prompt string, field *string, optional bool, next func()) *draftTextInput {
	set := func(input string) {
		*field = input
		next()
	}
	input := newTextInput(c.chatID, prompt, set)
	if optional {
		input = newOptionalTextInput(c.chatID, prompt, set)
	}
	return &draftTextInput{textInput: input, field: field, next: next}
}

type draftTextInput struct {
	*textInput
	field *string
	next  func()
}

func (a *draftTextInput) InitMessage() botApi.Chattable {
	if *a.field == "" {
		return a.textInput.InitMessage()
	}

	msg := a.textInput.InitMessage().(botApi.MessageConfig)
	msg.Text += "\nHiện tại: " + *a.field
	markup := msg.ReplyMarkup.(botApi.ReplyKeyboardMarkup)
	markup.Keyboard = append([][]botApi.KeyboardButton{botApi.NewKeyboardButtonRow(botApi.NewKeyboardButton(keepButton))},
		markup.Keyboard...)
	msg.ReplyMarkup = markup
	return msg
}

func (a *draftTextInput) HandleInput(input string) botApi.Chattable {
	if strings.TrimSpace(input) == keepButton && *a.field != "" {
		a.next()
		return nil
	}
	return a.textInput.HandleInput(input)
}

type profileExistsError struct {
	companyName string
}

func (e *profileExistsError) Error() string {
	return "employer profile already exists: " + e.companyName
}

func withBackButton(rows [][]botApi.KeyboardButton) [][]botApi.KeyboardButton {
	for _, row := range rows {
		for _, button := range row {
			if button.Text == backButton {
				return rows
			}
		}
	}
	back := botApi.NewKeyboardButton(backButton)
	if len(rows) > 0 {
		last := rows[len(rows)-1]
		if len(last) == 1 && last[0].Text == backToMenuCommandName {
			rows[len(rows)-1] = []botApi.KeyboardButton{back, last[0]}
			return rows
		}
	}
	return append(rows, botApi.NewKeyboardButtonRow(back))
}

func profileSummary(d onboarding.Draft) string {
	profile := d.Profile()
	lines := []string{
		"Doanh nghiệp: " + profile.CompanyName,
		"Loại hình: " + profile.BusinessType,
	}
	if profile.TaxCode != "" {
		lines = append(lines, "Mã số thuế: "+profile.TaxCode)
	}
	lines = append(lines,
		"Địa chỉ: "+profile.Address,
		"Quy mô: "+profile.EmployeeCount,
		"Giới thiệu: "+profile.Description,
	)
	if len(profile.SocialLinks) > 0 {
		lines = append(lines, "Mạng xã hội:\n"+describeLinks(profile.SocialLinks))
	}
	lines = append(lines,
		"Người liên hệ: "+profile.ContactName,
		"Điện thoại: "+profile.ContactPhone,
		"Email: "+profile.ContactEmail,
	)
	return strings.Join(lines, "\n")
}
