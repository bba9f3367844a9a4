package bot

import (
	"regexp"
	"strings"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const resendCodeButton = "Gửi lại mã"

var otpRegexp = regexp.MustCompile(`^\d{6}$`)

// otpInput waits for a six digit code sent by e-mail. The resend button asks
// the backend for a new code and keeps waiting.
type otpInput struct {
	chatID   int64
	email    func() string
	resend   func() error
	onFinish func(code string)
}

func newOtpInput(chatID int64, email func() string, resend func() error, onFinish func(code string)) *otpInput {
	return &otpInput{chatID: chatID, email: email, resend: resend, onFinish: onFinish}
}

func (a *otpInput) InitMessage() botApi.Chattable {
	msg := botApi.NewMessage(a.chatID, "Nhập mã xác thực gồm 6 chữ số đã được gửi tới "+a.email()+".")
	msg.ReplyMarkup = keyboardWithExit(resendCodeButton)
	return msg
}

func (a *otpInput) HandleInput(input string) botApi.Chattable {

	input = strings.TrimSpace(input)

	if input == resendCodeButton {
		if err := a.resend(); err != nil {
			return botApi.NewMessage(a.chatID, errorText(err))
		}
		return botApi.NewMessage(a.chatID, "Đã gửi lại mã tới "+a.email()+".")
	}

	if !otpRegexp.MatchString(input) {
		return botApi.NewMessage(a.chatID, "Mã xác thực phải gồm đúng 6 chữ số.")
	}

	a.onFinish(input)
	return nil
}
