package bot

import (
	"context"
	"strings"

	"github.com/vieclam/jobportal/internal/auth"
	"github.com/vieclam/jobportal/internal/clients/jobportal"
	"github.com/vieclam/jobportal/internal/domain/models"
)

const forgotPasswordCommandName = "Quên mật khẩu"

const (
	resetEmailStep = iota
	resetCodeStep
	resetPasswordStep
)

type passwordResetAPI interface {
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, request models.ResetPasswordRequest) error
}

type passwordResetCommand struct {
	*formCommand
	portal  passwordResetAPI
	pending *auth.PendingVerifications
	request models.ResetPasswordRequest
}

// newPasswordResetCommand skips the e-mail step when a reset code was already
// requested and has not expired yet.
func newPasswordResetCommand(ctx context.Context, api apiInterface, chatID int64, portal passwordResetAPI,
	pending *auth.PendingVerifications) *passwordResetCommand {

	cmd := &passwordResetCommand{formCommand: newFormCommand(ctx, api, chatID, "reset_password"),
		portal: portal, pending: pending}

	email := newTextInput(chatID, "Nhập email tài khoản cần lấy lại mật khẩu:", func(input string) {
		cmd.request.Email = strings.ToLower(input)
		cmd.requestCode()
	})
	email.AddValidation(emailValidation())

	code := newOtpInput(chatID,
		func() string { return cmd.request.Email },
		func() error { return cmd.portal.ForgotPassword(cmd.ctx, cmd.request.Email) },
		func(code string) {
			cmd.request.OTP = code
			cmd.next()
		})

	password := newTextInput(chatID, "Nhập mật khẩu mới (ít nhất 6 ký tự):", func(input string) {
		cmd.request.NewPassword = input
		cmd.next()
	})
	password.AddValidation(minLengthValidation(6, "Mật khẩu phải có ít nhất 6 ký tự."))

	cmd.inputHandlers = []inputHandler{email, code, password}
	cmd.onComplete = cmd.reset

	if pendingEmail, ok := pending.Email(chatID, auth.PendingPasswordReset); ok {
		cmd.request.Email = pendingEmail
		cmd.curHandlerIndex = resetCodeStep
	}
	return cmd
}

func (c *passwordResetCommand) requestCode() {

	if err := c.portal.ForgotPassword(c.ctx, c.request.Email); err != nil {
		if jobportal.IsNotFound(err) || jobportal.IsBadRequest(err) {
			c.retryFrom(resetEmailStep, "Không tìm thấy tài khoản với email này.")
			return
		}
		c.fail(err)
		return
	}

	c.pending.Mark(c.chatID, auth.PendingPasswordReset, c.request.Email)
	c.next()
}

func (c *passwordResetCommand) reset() {

	err := c.portal.ResetPassword(c.ctx, c.request)
	c.request.NewPassword = ""
	if err != nil {
		if jobportal.IsBadRequest(err) {
			c.retryFrom(resetCodeStep, "Mã xác thực không đúng hoặc đã hết hạn.")
			return
		}
		c.fail(err)
		return
	}

	c.pending.Clear(c.chatID, auth.PendingPasswordReset)
	c.finish("Đặt lại mật khẩu thành công! Hãy đăng nhập bằng mật khẩu mới.")
}
