package bot

import (
	"context"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/vieclam/jobportal/internal/auth"
	"github.com/vieclam/jobportal/internal/clients/jobportal"
	"github.com/vieclam/jobportal/internal/domain/models"
	"github.com/vieclam/jobportal/internal/onboarding"
	"github.com/vieclam/jobportal/internal/services"
)

func Test_ErrorText_ShouldDependOnStatusCodeOnly(t *testing.T) {

	assert := assert.New(t)

	assert.Equal(sessionExpiredText, errorText(apiError(http.StatusUnauthorized)))
	assert.Equal("Bạn không có quyền thực hiện thao tác này.", errorText(apiError(http.StatusForbidden)))
	assert.Equal("Không tìm thấy dữ liệu yêu cầu.", errorText(apiError(http.StatusNotFound)))
	assert.Equal(internalErrorText, errorText(apiError(http.StatusInternalServerError)))
	assert.Equal(internalErrorText, errorText(errors.New("connection refused")))
}

func Test_ErrorText_WhenBadRequest_ShouldAppendBackendMessage(t *testing.T) {

	err := errors.Wrap(&jobportal.APIError{StatusCode: http.StatusBadRequest, Message: "Tiêu đề quá dài"}, "create job")

	assert.Equal(t, "Yêu cầu không hợp lệ. Tiêu đề quá dài", errorText(err))
}

func Test_ErrorText_WhenCanceled_ShouldBeSilent(t *testing.T) {

	assert := assert.New(t)

	assert.Equal("", errorText(nil))
	assert.Equal("", errorText(context.Canceled))
	assert.Equal("", errorText(errors.Wrap(context.Canceled, "search")))
}

func Test_ErrorText_WhenValidationFailed_ShouldListFields(t *testing.T) {

	err := &onboarding.ValidationError{Fields: []onboarding.FieldError{
		{Field: "Phone", Message: "Số điện thoại không hợp lệ"},
		{Field: "Email", Message: "Email không hợp lệ"},
	}}

	assert.Equal(t, "Vui lòng kiểm tra lại:\n• Số điện thoại không hợp lệ\n• Email không hợp lệ", errorText(err))
}

func Test_ListingText_WhenTruncated_ShouldWarn(t *testing.T) {

	assert := assert.New(t)

	page := services.ListingPage{
		Jobs:          []models.JobPosting{{ID: 1, Title: "Phục vụ", HourlyRate: 20000}},
		Page:          1,
		TotalPages:    1,
		TotalFiltered: 1,
		Truncated:     true,
	}

	text := listingText(page, services.ListingFilter{Category: services.CategoryFnB})

	assert.Contains(text, "1. Phục vụ")
	assert.Contains(text, "20,000/giờ")
	assert.Contains(text, "F&B")
	assert.Contains(text, "50 tin mới nhất")
}

func Test_MenuKeyboard_ShouldDependOnRole(t *testing.T) {

	assert := assert.New(t)

	buttons := func(destination string) []string {
		var texts []string
		for _, row := range menuKeyboard(auth.Destination(destination)).Keyboard {
			for _, button := range row {
				texts = append(texts, button.Text)
			}
		}
		return texts
	}

	assert.Contains(buttons("employer"), createJobCommandName)
	assert.NotContains(buttons("jobseeker"), createJobCommandName)
	assert.Contains(buttons("admin"), moderateCommandName)
	assert.Contains(buttons("login"), loginCommandName)
}
