package bot

import (
	"context"
	"strconv"
	"strings"

	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
	"github.com/vieclam/jobportal/internal/auth"
	"github.com/vieclam/jobportal/internal/clients/jobportal"
	"github.com/vieclam/jobportal/internal/domain/events"
	"github.com/vieclam/jobportal/internal/domain/models"
	"github.com/vieclam/jobportal/internal/services"
	"golang.org/x/sync/errgroup"
)

const browseJobsCommandName = "Tìm việc"

const (
	previousPageButton = "◀ Trang trước"
	nextPageButton     = "Trang sau ▶"
	categoryButton     = "Ngành nghề"
	salaryButton       = "Mức lương"
	newSearchButton    = "Tìm kiếm mới"
	applyButton        = "Ứng tuyển"
	backToListButton   = "Quay lại danh sách"
	allSalariesOption  = "Mọi mức lương"
)

type jobSeekerAPI interface {
	SearchJobPostings(ctx context.Context, parameters jobportal.JobSearchParameters) (jobportal.JobPostingPage, error)
	GetActiveAdvertisements(ctx context.Context, position models.AdvertisementPosition) ([]models.Advertisement, error)
	GetMyResumes(ctx context.Context) ([]models.Resume, error)
	ApplyForJob(ctx context.Context, request models.ApplicationRequest) (models.JobApplication, error)
}

// browseJobsCommand is the public job list: one server search by keyword and
// city, then category, salary and page selection run locally over the batch.
type browseJobsCommand struct {
	*formCommand
	portal   jobSeekerAPI
	cities   cityCatalog
	session  *auth.Session
	bus      EventBus.Bus
	board    *services.JobBoard
	query    services.JobQuery
	filter   services.ListingFilter
	page     int
	ad       *models.Advertisement
	selected models.JobPosting
	resume   models.Resume
	curInput inputHandler
}

func newBrowseJobsCommand(ctx context.Context, api apiInterface, chatID int64, portal jobSeekerAPI,
	cities cityCatalog, session *auth.Session, bus EventBus.Bus) *browseJobsCommand {

	cmd := &browseJobsCommand{
		formCommand: newFormCommand(ctx, api, chatID, "browse_jobs"),
		portal:      portal,
		cities:      cities,
		session:     session,
		bus:         bus,
		board:       services.NewJobBoard(portal),
		page:        1,
	}
	cmd.curInput = cmd.keywordInput()
	return cmd
}

func (c *browseJobsCommand) Run() {
	_, _ = sendWithLogError(c.api, c.curInput.InitMessage())
}

func (c *browseJobsCommand) OnUserInput(input string) {

	current := c.curInput
	msg := current.HandleInput(input)

	if c.finished {
		return
	}

	if c.curInput == current {
		_, _ = sendWithLogError(c.api, msg)
		return
	}

	_, _ = sendWithLogError(c.api, c.curInput.InitMessage())
}

func (c *browseJobsCommand) keywordInput() inputHandler {
	input := newOptionalTextInput(c.chatID, "Nhập từ khóa tìm việc (ví dụ: phục vụ, thu ngân):", func(keyword string) {
		c.query.Keyword = keyword
		c.curInput = c.cityInput()
	})
	input.AddValidation(maxLengthValidation(100, "Từ khóa không được quá 100 ký tự."))
	return input
}

func (c *browseJobsCommand) cityInput() inputHandler {
	return newOptionalCityInput(c.ctx, c.chatID, "Chọn thành phố:", c.cities, func(city models.City) {
		c.query.CityID = city.ID
		c.search()
	})
}

func (c *browseJobsCommand) search() {

	var ads []models.Advertisement
	group, ctx := errgroup.WithContext(c.ctx)

	group.Go(func() error {
		return c.board.Refresh(ctx, c.query)
	})
	group.Go(func() error {
		var err error
		if ads, err = c.portal.GetActiveAdvertisements(ctx, models.PositionTop); err != nil {
			logAPIError(err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		c.fail(err)
		return
	}

	c.ad = nil
	if len(ads) > 0 {
		c.ad = &ads[0]
	}
	c.filter = services.ListingFilter{}
	c.page = 1
	c.curInput = c.listingInput()
}

func (c *browseJobsCommand) listingInput() inputHandler {

	listing := &listingInput{
		chatID:   c.chatID,
		page:     c.board.View(c.filter, c.page),
		filter:   c.filter,
		ad:       c.ad,
		onSelect: c.showDetails,
		onAction: c.onListingAction,
	}
	c.ad = nil
	c.page = listing.page.Page
	return listing
}

func (c *browseJobsCommand) onListingAction(action string) {
	switch action {
	case previousPageButton:
		c.page--
		c.curInput = c.listingInput()
	case nextPageButton:
		c.page++
		c.curInput = c.listingInput()
	case categoryButton:
		c.curInput = c.categoryInput()
	case salaryButton:
		c.curInput = c.salaryInput()
	case newSearchButton:
		c.query = services.JobQuery{}
		c.curInput = c.keywordInput()
	}
}

func (c *browseJobsCommand) categoryInput() inputHandler {

	categories := append([]services.Category{services.CategoryAll}, services.Categories...)
	options := lo.Map(categories, func(category services.Category, _ int) string { return categoryLabel(category) })

	return newChoiceInput(c.chatID, "Chọn ngành nghề:", options, func(index int) {
		c.filter.Category = categories[index]
		c.page = 1
		c.curInput = c.listingInput()
	})
}

func (c *browseJobsCommand) salaryInput() inputHandler {

	options := append([]string{allSalariesOption},
		lo.Map(services.SalaryRanges, func(r services.SalaryRange, _ int) string { return r.Label })...)

	return newChoiceInput(c.chatID, "Chọn mức lương theo giờ:", options, func(index int) {
		c.filter.Salary = nil
		if index > 0 {
			salaryRange := services.SalaryRanges[index-1]
			c.filter.Salary = &salaryRange
		}
		c.page = 1
		c.curInput = c.listingInput()
	})
}

func (c *browseJobsCommand) showDetails(job models.JobPosting) {
	c.selected = job
	c.curInput = &detailsInput{chatID: c.chatID, job: job, onAction: func(action string) {
		switch action {
		case applyButton:
			c.startApplication()
		case backToListButton:
			c.curInput = c.listingInput()
		}
	}}
}

func (c *browseJobsCommand) startApplication() {

	claims, ok := c.session.Claims()
	if !ok || auth.HomeFor(claims.Role) != auth.DestinationJobSeeker {
		_, _ = sendWithLogError(c.api, botApi.NewMessage(c.chatID,
			"Vui lòng đăng nhập bằng tài khoản người tìm việc để ứng tuyển."))
		return
	}

	resumes, err := c.portal.GetMyResumes(c.ctx)
	if err != nil {
		_, _ = sendWithLogError(c.api, botApi.NewMessage(c.chatID, errorText(err)))
		return
	}
	if len(resumes) == 0 {
		_, _ = sendWithLogError(c.api, botApi.NewMessage(c.chatID,
			"Bạn chưa có CV nào. Hãy tải CV lên trang web trước khi ứng tuyển."))
		return
	}

	c.curInput = newItemInput(c.chatID, "Chọn CV để ứng tuyển:", resumes,
		func(resume models.Resume) string { return resume.Title },
		func(resume models.Resume) {
			c.resume = resume
			c.curInput = c.coverNoteInput()
		})
}

func (c *browseJobsCommand) coverNoteInput() inputHandler {
	input := newOptionalTextInput(c.chatID, "Viết vài dòng giới thiệu gửi nhà tuyển dụng:", c.apply)
	input.AddValidation(maxLengthValidation(1000, "Lời giới thiệu không được quá 1000 ký tự."))
	return input
}

func (c *browseJobsCommand) apply(coverNote string) {

	_, err := c.portal.ApplyForJob(c.ctx, models.ApplicationRequest{
		ResumeID:     c.resume.ID,
		JobPostingID: c.selected.ID,
		CoverNote:    coverNote,
	})
	if err != nil {
		text := errorText(err)
		if jobportal.IsConflict(err) {
			text = "Bạn đã ứng tuyển công việc này rồi."
		}
		_, _ = sendWithLogError(c.api, botApi.NewMessage(c.chatID, text))
		c.curInput = c.listingInput()
		return
	}

	c.bus.Publish(events.ApplicationSubmittedTopic, events.ApplicationSubmitted{ChatID: c.chatID, JobPostingID: c.selected.ID})
	_, _ = sendWithLogError(c.api, botApi.NewMessage(c.chatID, "Ứng tuyển thành công! Nhà tuyển dụng sẽ liên hệ với bạn."))
	c.curInput = c.listingInput()
}

type listingInput struct {
	chatID   int64
	page     services.ListingPage
	filter   services.ListingFilter
	ad       *models.Advertisement
	onSelect func(job models.JobPosting)
	onAction func(action string)
}

func (l *listingInput) InitMessage() botApi.Chattable {

	text := listingText(l.page, l.filter)
	if l.ad != nil {
		text = advertisementText(*l.ad) + "\n\n" + text
	}

	msg := botApi.NewMessage(l.chatID, text)
	msg.ReplyMarkup = keyboardWithExit(append(numberButtons(len(l.page.Jobs)), l.actions()...)...)
	return msg
}

func (l *listingInput) HandleInput(input string) botApi.Chattable {

	input = strings.TrimSpace(input)
	if lo.Contains(l.actions(), input) {
		l.onAction(input)
		return nil
	}

	number, err := strconv.Atoi(input)
	if err != nil || number < 1 || number > len(l.page.Jobs) {
		return botApi.NewMessage(l.chatID, "Nhập số thứ tự của việc làm để xem chi tiết, hoặc chọn thao tác trên bàn phím.")
	}

	l.onSelect(l.page.Jobs[number-1])
	return nil
}

func (l *listingInput) actions() []string {
	var actions []string
	if l.page.Page > 1 {
		actions = append(actions, previousPageButton)
	}
	if l.page.Page < l.page.TotalPages {
		actions = append(actions, nextPageButton)
	}
	return append(actions, categoryButton, salaryButton, newSearchButton)
}

type detailsInput struct {
	chatID   int64
	job      models.JobPosting
	onAction func(action string)
}

func (d *detailsInput) InitMessage() botApi.Chattable {
	msg := botApi.NewMessage(d.chatID, jobDetails(d.job))
	msg.ReplyMarkup = keyboardWithExit(applyButton, backToListButton)
	return msg
}

func (d *detailsInput) HandleInput(input string) botApi.Chattable {
	switch strings.TrimSpace(input) {
	case applyButton, backToListButton:
		d.onAction(strings.TrimSpace(input))
		return nil
	default:
		return botApi.NewMessage(d.chatID, "Vui lòng chọn thao tác trên bàn phím.")
	}
}
