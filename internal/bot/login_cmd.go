package bot

import (
	"context"
	"strings"

	"github.com/vieclam/jobportal/internal/auth"
	"github.com/vieclam/jobportal/internal/clients/jobportal"
	"github.com/vieclam/jobportal/internal/domain/models"
)

const loginCommandName = "Đăng nhập"

type loginAPI interface {
	Login(ctx context.Context, request models.LoginRequest) (string, error)
	GetEmployerProfile(ctx context.Context) (models.EmployerProfile, error)
}

type loginCommand struct {
	*formCommand
	portal   loginAPI
	session  *auth.Session
	email    string
	password string
}

func newLoginCommand(ctx context.Context, api apiInterface, chatID int64, portal loginAPI,
	session *auth.Session) *loginCommand {

	cmd := &loginCommand{formCommand: newFormCommand(ctx, api, chatID, "login"), portal: portal, session: session}

	email := newTextInput(chatID, "Nhập email đăng nhập:", func(input string) {
		cmd.email = strings.ToLower(input)
		cmd.next()
	})
	email.AddValidation(emailValidation())

	password := newTextInput(chatID, "Nhập mật khẩu:", func(input string) {
		cmd.password = input
		cmd.next()
	})

	cmd.inputHandlers = []inputHandler{email, password}
	cmd.onComplete = cmd.login
	return cmd
}

func (c *loginCommand) login() {

	token, err := c.portal.Login(c.ctx, models.LoginRequest{Email: c.email, Password: c.password})
	c.password = ""
	if err != nil {
		if jobportal.IsBadRequest(err) || jobportal.IsUnauthorized(err) {
			c.retryFrom(0, "Email hoặc mật khẩu không đúng.")
			return
		}
		c.fail(err)
		return
	}

	claims, err := c.session.SignIn(token)
	if err != nil {
		c.fail(err)
		return
	}

	destination := auth.HomeFor(claims.Role)
	if destination == auth.DestinationLogin {
		c.session.SignOut()
		c.end("Loại tài khoản này chưa được hỗ trợ.")
		return
	}

	text := "Đăng nhập thành công!"
	if destination == auth.DestinationEmployer {
		if _, err = c.portal.GetEmployerProfile(c.ctx); jobportal.IsNotFound(err) {
			text += "\nBạn chưa có hồ sơ nhà tuyển dụng. Chọn «" + onboardingCommandName + "» để tạo hồ sơ."
		} else if err != nil {
			logAPIError(err)
		}
	}

	c.finish(text)
}
