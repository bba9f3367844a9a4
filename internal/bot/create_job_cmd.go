package bot

import (
	"context"
	"encoding/json"
	"regexp"

	"github.com/samber/lo"
	"github.com/vieclam/jobportal/internal/domain/models"
	"github.com/vieclam/jobportal/internal/services"
)

const createJobCommandName = "Đăng tin tuyển dụng"

var clockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type jobPostingCreator interface {
	CreateJobPosting(ctx context.Context, draft models.JobPostingDraft) (models.JobPosting, error)
}

type jobCatalog interface {
	cityCatalog
	GetJobTags(ctx context.Context) ([]models.JobTag, error)
}

type createJobCommand struct {
	*formCommand
	portal jobPostingCreator
	draft  models.JobPostingDraft
}

func newCreateJobCommand(ctx context.Context, api apiInterface, chatID int64, portal jobPostingCreator,
	catalog jobCatalog) *createJobCommand {

	cmd := &createJobCommand{formCommand: newFormCommand(ctx, api, chatID, "create_job"), portal: portal}

	title := newTextInput(chatID, "Nhập tiêu đề tin tuyển dụng:", func(input string) {
		cmd.draft.Title = input
		cmd.next()
	})
	title.AddValidation(maxLengthValidation(200, "Tiêu đề không được quá 200 ký tự."))

	rate := newTextInput(chatID, "Mức lương theo giờ (VNĐ), ví dụ 25,000:", func(input string) {
		amount, _ := services.ParseSalary(input)
		cmd.draft.HourlyRate = float64(amount)
		cmd.next()
	})
	rate.AddValidation(validation{
		function: func(input string) bool {
			amount, ok := services.ParseSalary(input)
			return ok && amount > 0
		},
		errorMessage: "Mức lương phải là số dương, ví dụ 25,000.",
	})

	startTime := newTextInput(chatID, "Giờ bắt đầu ca (HH:MM):", func(input string) {
		cmd.draft.StartTime = input
		cmd.next()
	})
	startTime.AddValidation(clockValidation())

	endTime := newTextInput(chatID, "Giờ kết thúc ca (HH:MM):", func(input string) {
		cmd.draft.EndTime = input
		cmd.next()
	})
	endTime.AddValidation(clockValidation())

	city := newCityInput(ctx, chatID, "Chọn thành phố:", catalog, func(city models.City) {
		cmd.draft.CityID = city.ID
		cmd.next()
	})

	location := newOptionalTextInput(chatID, "Địa điểm làm việc cụ thể:", func(input string) {
		cmd.draft.Location = input
		cmd.next()
	})

	requirements := newTextInput(chatID, "Mô tả yêu cầu công việc:", func(input string) {
		cmd.draft.Requirements = input
		cmd.next()
	})

	cmd.inputHandlers = []inputHandler{title, rate, startTime, endTime, city, location}

	// Tags are optional; the step is left out when they cannot be loaded.
	// Loading also warms the city list for the city step.
	options, err := services.LoadFilterOptions(ctx, catalog)
	if err != nil {
		logAPIError(err)
	}
	if tags := options.Tags; len(tags) > 0 {
		options := append(tagNames(tags), skipButton)
		tag := newChoiceInput(chatID, "Chọn nhóm công việc:", options, func(index int) {
			if index < len(tags) {
				cmd.draft.JobTagID = tags[index].ID
			}
			cmd.next()
		})
		cmd.inputHandlers = append(cmd.inputHandlers, tag)
	}

	cmd.inputHandlers = append(cmd.inputHandlers, requirements)
	cmd.onComplete = cmd.create
	return cmd
}

func (c *createJobCommand) create() {

	if c.draft.EndTime == c.draft.StartTime {
		c.retryFrom(2, "Giờ kết thúc phải khác giờ bắt đầu.")
		return
	}

	job, err := c.portal.CreateJobPosting(c.ctx, c.draft)
	if err != nil {
		c.fail(err)
		return
	}

	c.finish("Tin «" + job.Title + "» đã được gửi và đang chờ quản trị viên duyệt.")
}

func (c *createJobCommand) SaveState() ([]byte, error) {
	return json.Marshal(&struct {
		CurHandlerIndex int
		Draft           models.JobPostingDraft
	}{
		CurHandlerIndex: c.curHandlerIndex,
		Draft:           c.draft,
	})
}

func (c *createJobCommand) LoadState(data []byte) error {

	aux := &struct {
		CurHandlerIndex int
		Draft           models.JobPostingDraft
	}{}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	if aux.CurHandlerIndex < 0 || aux.CurHandlerIndex >= len(c.inputHandlers) {
		aux.CurHandlerIndex = 0
	}
	c.curHandlerIndex = aux.CurHandlerIndex
	c.draft = aux.Draft
	return nil
}

func clockValidation() validation {
	return validation{
		function:     clockRegex.MatchString,
		errorMessage: "Giờ không hợp lệ, vui lòng nhập theo dạng HH:MM, ví dụ 08:30.",
	}
}

func tagNames(tags []models.JobTag) []string {
	return lo.Map(tags, func(tag models.JobTag, _ int) string { return tag.Name })
}
