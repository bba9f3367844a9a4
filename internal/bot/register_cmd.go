package bot

import (
	"context"
	"strings"

	"github.com/vieclam/jobportal/internal/auth"
	"github.com/vieclam/jobportal/internal/clients/jobportal"
	"github.com/vieclam/jobportal/internal/domain/models"
)

const (
	registerCommandName = "Đăng ký"
	verifyCommandName   = "Nhập mã OTP"
)

const registerOtpStep = 4

var (
	roleOptions = []string{"Người tìm việc", "Nhà tuyển dụng"}
	roleValues  = []models.Role{models.RoleJobSeeker, models.RoleEmployer}
)

type registrationAPI interface {
	Register(ctx context.Context, request models.RegisterRequest) error
	VerifyOTP(ctx context.Context, request models.VerifyOTPRequest) error
	ResendOTP(ctx context.Context, email string) error
}

type registerCommand struct {
	*formCommand
	portal  registrationAPI
	pending *auth.PendingVerifications
	request models.RegisterRequest
}

func newRegisterCommand(ctx context.Context, api apiInterface, chatID int64, portal registrationAPI,
	pending *auth.PendingVerifications) *registerCommand {

	cmd := &registerCommand{formCommand: newFormCommand(ctx, api, chatID, "register"), portal: portal, pending: pending}

	email := newTextInput(chatID, "Nhập email để đăng ký:", func(input string) {
		cmd.request.Email = strings.ToLower(input)
		cmd.next()
	})
	email.AddValidation(emailValidation())

	password := newTextInput(chatID, "Nhập mật khẩu (ít nhất 6 ký tự):", func(input string) {
		cmd.request.Password = input
		cmd.next()
	})
	password.AddValidation(minLengthValidation(6, "Mật khẩu phải có ít nhất 6 ký tự."))

	fullName := newTextInput(chatID, "Nhập họ và tên:", func(input string) {
		cmd.request.FullName = input
		cmd.next()
	})
	fullName.AddValidation(maxLengthValidation(100, "Họ tên không được quá 100 ký tự."))

	role := newChoiceInput(chatID, "Bạn đăng ký với vai trò nào?", roleOptions, func(index int) {
		cmd.request.Role = roleValues[index]
		cmd.register()
	})

	otp := newOtpInput(chatID,
		func() string { return cmd.request.Email },
		func() error { return cmd.portal.ResendOTP(cmd.ctx, cmd.request.Email) },
		cmd.verify)

	cmd.inputHandlers = []inputHandler{email, password, fullName, role, otp}
	return cmd
}

// newVerifyCommand continues a registration whose code is still pending.
func newVerifyCommand(ctx context.Context, api apiInterface, chatID int64, portal registrationAPI,
	pending *auth.PendingVerifications) (*registerCommand, error) {

	email, ok := pending.Email(chatID, auth.PendingRegistration)
	if !ok {
		return nil, errNoPendingVerification
	}

	cmd := newRegisterCommand(ctx, api, chatID, portal, pending)
	cmd.name = "verify"
	cmd.request.Email = email
	cmd.curHandlerIndex = registerOtpStep
	return cmd, nil
}

func (c *registerCommand) register() {

	err := c.portal.Register(c.ctx, c.request)
	c.request.Password = ""
	if err != nil {
		switch {
		case jobportal.IsConflict(err):
			c.retryFrom(0, "Email này đã được đăng ký.")
		case jobportal.IsBadRequest(err):
			c.retryFrom(0, errorText(err))
		default:
			c.fail(err)
		}
		return
	}

	c.pending.Mark(c.chatID, auth.PendingRegistration, c.request.Email)
	c.next()
}

func (c *registerCommand) verify(code string) {

	err := c.portal.VerifyOTP(c.ctx, models.VerifyOTPRequest{Email: c.request.Email, OTP: code})
	if err != nil {
		if jobportal.IsBadRequest(err) {
			c.retryFrom(registerOtpStep, "Mã xác thực không đúng hoặc đã hết hạn.")
			return
		}
		c.fail(err)
		return
	}

	c.pending.Clear(c.chatID, auth.PendingRegistration)
	c.finish("Xác thực tài khoản thành công! Bây giờ bạn có thể đăng nhập.")
}
