package bot

import (
	"context"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vieclam/jobportal/internal/domain/models"
)

const moderateCommandName = "Duyệt tin"

const (
	approveButton = "Duyệt"
	rejectButton  = "Từ chối"
	deleteButton  = "Xóa tin"
)

type moderationAPI interface {
	GetPendingJobPostings(ctx context.Context) ([]models.JobPosting, error)
	ApproveJobPosting(ctx context.Context, id int) error
	RejectJobPosting(ctx context.Context, id int, reason string) error
	DeleteJobPosting(ctx context.Context, id int) error
}

// moderateCommand lets an admin walk the pending queue. The queue is reloaded
// after every decision, so postings handled elsewhere drop out.
type moderateCommand struct {
	*formCommand
	portal   moderationAPI
	pending  []models.JobPosting
	selected models.JobPosting
	curInput inputHandler
}

func newModerateCommand(ctx context.Context, api apiInterface, chatID int64,
	portal moderationAPI) (*moderateCommand, error) {

	pending, err := portal.GetPendingJobPostings(ctx)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, errNothingToModerate
	}

	cmd := &moderateCommand{
		formCommand: newFormCommand(ctx, api, chatID, "moderate"),
		portal:      portal,
		pending:     pending,
	}
	cmd.curInput = cmd.queueInput()
	return cmd, nil
}

func (c *moderateCommand) Run() {
	_, _ = sendWithLogError(c.api, c.curInput.InitMessage())
}

func (c *moderateCommand) OnUserInput(input string) {

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

func (c *moderateCommand) queueInput() inputHandler {
	return newItemInput(c.chatID, "Tin tuyển dụng chờ duyệt:", c.pending, jobSummary, func(job models.JobPosting) {
		c.selected = job
		c.curInput = c.decisionInput()
	})
}

func (c *moderateCommand) decisionInput() inputHandler {

	options := []string{approveButton, rejectButton, deleteButton, backToListButton}
	input := newChoiceInput(c.chatID, jobDetails(c.selected), options, func(index int) {
		switch options[index] {
		case approveButton:
			c.decide(c.portal.ApproveJobPosting(c.ctx, c.selected.ID), "Đã duyệt tin.")
		case rejectButton:
			c.curInput = c.reasonInput()
		case deleteButton:
			c.decide(c.portal.DeleteJobPosting(c.ctx, c.selected.ID), "Đã xóa tin.")
		case backToListButton:
			c.curInput = c.queueInput()
		}
	})
	return input
}

func (c *moderateCommand) reasonInput() inputHandler {
	input := newTextInput(c.chatID, "Nhập lý do từ chối:", func(reason string) {
		c.decide(c.portal.RejectJobPosting(c.ctx, c.selected.ID, reason), "Đã từ chối tin.")
	})
	input.AddValidation(maxLengthValidation(500, "Lý do không được quá 500 ký tự."))
	return input
}

func (c *moderateCommand) decide(err error, doneText string) {

	if err != nil {
		_, _ = sendWithLogError(c.api, botApi.NewMessage(c.chatID, errorText(err)))
	} else {
		_, _ = sendWithLogError(c.api, botApi.NewMessage(c.chatID, doneText))
	}

	pending, err := c.portal.GetPendingJobPostings(c.ctx)
	if err != nil {
		c.fail(err)
		return
	}
	if len(pending) == 0 {
		c.finish("Không còn tin nào chờ duyệt.")
		return
	}

	c.pending = pending
	c.curInput = c.queueInput()
}
