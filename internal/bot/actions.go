package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vieclam/jobportal/internal/auth"
	"github.com/vieclam/jobportal/internal/domain/models"
)

const (
	myApplicationsCommandName = "Đơn ứng tuyển"
	myJobsCommandName         = "Tin đã đăng"
	logoutCommandName         = "Đăng xuất"
	startCommandName          = "start"
)

type activeJobsCounter interface {
	CountActiveJobPostings(ctx context.Context) (int, error)
}

type applicationsAPI interface {
	GetMyApplications(ctx context.Context) ([]models.JobApplication, error)
}

type employerJobsAPI interface {
	GetEmployerJobPostings(ctx context.Context, employerID int) ([]models.JobPosting, error)
}

// Actions answer with a single message and never become the running command.

func welcomeMessage(ctx context.Context, chatID int64, portal activeJobsCounter, session *auth.Session) botApi.MessageConfig {

	count, err := portal.CountActiveJobPostings(ctx)
	if err != nil {
		logAPIError(err)
	}

	text := welcomeText(count, err == nil)
	if claims, ok := session.Claims(); ok {
		text += "\nBạn đang đăng nhập với vai trò " + string(claims.Role) + "."
	}

	msg := botApi.NewMessage(chatID, text)
	msg.ReplyMarkup = menuKeyboard(destinationOf(session))
	return msg
}

func logoutMessage(chatID int64, session *auth.Session) botApi.MessageConfig {

	text := "Bạn chưa đăng nhập."
	if session.IsSignedIn() {
		session.SignOut()
		text = "Đã đăng xuất."
	}

	msg := botApi.NewMessage(chatID, text)
	msg.ReplyMarkup = menuKeyboard(auth.DestinationLogin)
	return msg
}

func myApplicationsMessage(ctx context.Context, chatID int64, portal applicationsAPI,
	session *auth.Session) botApi.MessageConfig {

	msg := botApi.NewMessage(chatID, "")
	msg.ReplyMarkup = menuKeyboard(destinationOf(session))

	applications, err := portal.GetMyApplications(ctx)
	if err != nil {
		msg.Text = errorText(err)
		return msg
	}
	if len(applications) == 0 {
		msg.Text = "Bạn chưa ứng tuyển công việc nào. Chọn «" + browseJobsCommandName + "» để bắt đầu."
		return msg
	}

	lines := make([]string, 0, len(applications)+1)
	lines = append(lines, fmt.Sprintf("Bạn có %d đơn ứng tuyển:", len(applications)))
	for i, application := range applications {
		title := application.JobTitle
		if title == "" {
			title = fmt.Sprintf("Tin #%d", application.JobPostingID)
		}
		line := fmt.Sprintf("%d. %s · %s", i+1, title, applicationStatusLabel(application.Status))
		if !application.AppliedAt.IsZero() {
			line += " · " + application.AppliedAt.Format("02/01/2006")
		}
		lines = append(lines, line)
	}
	msg.Text = strings.Join(lines, "\n")
	return msg
}

func myJobsMessage(ctx context.Context, chatID int64, portal employerJobsAPI, session *auth.Session) botApi.MessageConfig {

	msg := botApi.NewMessage(chatID, "")
	msg.ReplyMarkup = menuKeyboard(destinationOf(session))

	claims, ok := session.Claims()
	if !ok {
		msg.Text = errorText(errNotSignedIn)
		return msg
	}

	jobs, err := portal.GetEmployerJobPostings(ctx, claims.UserIDInt())
	if err != nil {
		msg.Text = errorText(err)
		return msg
	}
	if len(jobs) == 0 {
		msg.Text = "Bạn chưa đăng tin nào. Chọn «" + createJobCommandName + "» để đăng tin đầu tiên."
		return msg
	}

	lines := make([]string, 0, len(jobs)+1)
	lines = append(lines, fmt.Sprintf("Bạn đã đăng %d tin:", len(jobs)))
	for i, job := range jobs {
		lines = append(lines, fmt.Sprintf("%d. %s · %s · %s", i+1, job.Title, job.Salary(), jobStatusLabel(job.Status)))
	}
	msg.Text = strings.Join(lines, "\n")
	return msg
}

// destinationOf treats a token that expired mid-session as signed out.
func destinationOf(session *auth.Session) auth.Destination {
	return auth.HomeForToken(session.Token(), time.Now)
}
