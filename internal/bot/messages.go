package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/vieclam/jobportal/internal/clients/jobportal"
	"github.com/vieclam/jobportal/internal/domain/models"
	"github.com/vieclam/jobportal/internal/logger"
	"github.com/vieclam/jobportal/internal/onboarding"
	"github.com/vieclam/jobportal/internal/services"
)

var (
	errNotSignedIn           = errors.New("user is not signed in")
	errWrongRole             = errors.New("command is not available for this role")
	errNoProfile             = errors.New("employer has no profile")
	errNoPendingVerification = errors.New("no registration is waiting for a code")
	errNothingToModerate     = errors.New("no job postings are waiting for moderation")
)

const (
	internalErrorText   = "Đã xảy ra lỗi, vui lòng thử lại sau."
	sessionExpiredText  = "Phiên đăng nhập đã hết hạn. Vui lòng đăng nhập lại."
	unknownCommandText  = "Lệnh không xác định!"
	commandExpectedText = "Vui lòng chọn chức năng trên menu."
)

// errorText maps an error to the message shown to the user. Status codes are
// the only thing that decides the copy; the backend message is appended for
// 400 and 409 where it explains what to fix.
func errorText(err error) string {

	var validationErr *onboarding.ValidationError
	var validatorErrs validator.ValidationErrors
	var apiErr *jobportal.APIError
	var profileExists *profileExistsError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "Máy chủ phản hồi quá lâu, vui lòng thử lại."
	case errors.As(err, &validationErr):
		return "Vui lòng kiểm tra lại:\n• " + strings.Join(fieldMessages(validationErr), "\n• ")
	case errors.As(err, &validatorErrs):
		return "Dữ liệu không hợp lệ, vui lòng kiểm tra lại."
	case errors.Is(err, errNotSignedIn):
		return "Vui lòng đăng nhập để sử dụng chức năng này."
	case errors.Is(err, errWrongRole):
		return "Chức năng này không dành cho tài khoản của bạn."
	case errors.Is(err, errNoPendingVerification):
		return "Không có đăng ký nào đang chờ xác thực. Chọn «" + registerCommandName + "» để đăng ký."
	case errors.Is(err, errNothingToModerate):
		return "Không có tin tuyển dụng nào chờ duyệt."
	case errors.As(err, &profileExists):
		return "Bạn đã có hồ sơ nhà tuyển dụng «" + profileExists.companyName + "»."
	case errors.Is(err, errNoProfile):
		return "Bạn cần tạo hồ sơ nhà tuyển dụng trước. Chọn «" + onboardingCommandName + "»."
	case jobportal.IsUnauthorized(err):
		return sessionExpiredText
	case jobportal.IsForbidden(err):
		return "Bạn không có quyền thực hiện thao tác này."
	case jobportal.IsNotFound(err):
		return "Không tìm thấy dữ liệu yêu cầu."
	case jobportal.IsBadRequest(err), jobportal.IsConflict(err):
		text := "Yêu cầu không hợp lệ."
		if jobportal.IsConflict(err) {
			text = "Dữ liệu đã tồn tại."
		}
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			text += " " + apiErr.Message
		}
		return text
	default:
		logAPIError(err)
		return internalErrorText
	}
}

// logAPIError logs failures the client has not logged itself: 5xx responses
// are already reported with the request id.
func logAPIError(err error) {
	if errors.Is(err, context.Canceled) || jobportal.StatusCode(err) >= 500 {
		return
	}
	log.WithField(logger.ErrorTypeField, logger.ErrorTypeApi).Error(err)
}

func fieldMessages(err *onboarding.ValidationError) []string {
	messages := make([]string, 0, len(err.Fields))
	for _, field := range err.Fields {
		messages = append(messages, field.Message)
	}
	return messages
}

func welcomeText(activeJobs int, known bool) string {
	text := "Chào mừng bạn đến với cổng việc làm bán thời gian!"
	if known {
		text += fmt.Sprintf("\nHiện có %d việc làm đang tuyển.", activeJobs)
	}
	return text
}

func jobSummary(job models.JobPosting) string {
	title := job.Title
	if job.CompanyName != "" {
		title += " · " + job.CompanyName
	}
	details := []string{"💰 " + job.Salary()}
	if place := job.Place(); place != "" {
		details = append(details, "📍 "+place)
	}
	if shift := job.Shift(); shift != "" {
		details = append(details, "🕒 "+shift)
	}
	return title + "\n   " + strings.Join(details, " | ")
}

func jobDetails(job models.JobPosting) string {
	var b strings.Builder
	b.WriteString(job.Title)
	b.WriteString("\n")
	if job.CompanyName != "" {
		b.WriteString("Công ty: " + job.CompanyName + "\n")
	}
	b.WriteString("Mức lương: " + job.Salary() + "\n")
	if place := job.Place(); place != "" {
		b.WriteString("Địa điểm: " + place + "\n")
	}
	if shift := job.Shift(); shift != "" {
		b.WriteString("Ca làm: " + shift + "\n")
	}
	if job.Category != "" {
		b.WriteString("Ngành nghề: " + job.Category + "\n")
	}
	if !job.PostedAt.IsZero() {
		b.WriteString("Ngày đăng: " + job.PostedAt.Format("02/01/2006") + "\n")
	}
	if job.Requirements != "" {
		b.WriteString("\nYêu cầu:\n" + job.Requirements)
	}
	return strings.TrimRight(b.String(), "\n")
}

func listingText(page services.ListingPage, filter services.ListingFilter) string {

	if page.TotalFiltered == 0 {
		text := "Không có việc làm phù hợp."
		if !filter.IsEmpty() {
			text += " Hãy thử bỏ bớt bộ lọc."
		}
		return text
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Trang %d/%d · %d việc làm", page.Page, page.TotalPages, page.TotalFiltered))
	if filter.Category != services.CategoryAll {
		b.WriteString(" · " + categoryLabel(filter.Category))
	}
	if filter.Salary != nil {
		b.WriteString(" · " + filter.Salary.Label)
	}
	b.WriteString("\n")

	for i, job := range page.Jobs {
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, jobSummary(job)))
	}

	if page.Truncated {
		b.WriteString(fmt.Sprintf("\n\nChỉ lọc trong %d tin mới nhất, hãy thêm từ khóa hoặc thành phố để xem đầy đủ hơn.",
			services.BatchSize))
	}
	return b.String()
}

func categoryLabel(category services.Category) string {
	switch category {
	case services.CategoryFnB:
		return "F&B"
	case services.CategoryRetail:
		return "Bán lẻ"
	case services.CategoryEvent:
		return "Sự kiện"
	case services.CategoryOther:
		return "Khác"
	default:
		return "Tất cả ngành nghề"
	}
}

func applicationStatusLabel(status models.ApplicationStatus) string {
	switch status {
	case models.ApplicationAccepted:
		return "Đã chấp nhận"
	case models.ApplicationRejected:
		return "Bị từ chối"
	default:
		return "Đang chờ"
	}
}

func jobStatusLabel(status models.JobStatus) string {
	switch status {
	case models.JobStatusActive:
		return "Đang tuyển"
	case models.JobStatusRejected:
		return "Bị từ chối"
	case models.JobStatusClosed:
		return "Đã đóng"
	default:
		return "Chờ duyệt"
	}
}

func advertisementText(ad models.Advertisement) string {
	text := "📣 " + ad.Title
	if ad.Description != "" {
		text += "\n" + ad.Description
	}
	return text
}
