package bot

import (
	"strconv"
	"strings"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// choiceInput offers a fixed set of options as reply buttons. The user may
// press a button or type the option's number.
type choiceInput struct {
	chatID      int64
	initMessage string
	options     []string
	onFinish    func(index int)
}

func newChoiceInput(chatID int64, initMessage string, options []string, onFinish func(index int)) *choiceInput {
	return &choiceInput{chatID: chatID, initMessage: initMessage, options: options, onFinish: onFinish}
}

func (a *choiceInput) InitMessage() botApi.Chattable {
	msg := botApi.NewMessage(a.chatID, a.initMessage)
	msg.ReplyMarkup = keyboardWithExit(a.options...)
	return msg
}

func (a *choiceInput) HandleInput(input string) botApi.Chattable {

	input = strings.TrimSpace(input)

	for i, option := range a.options {
		if strings.EqualFold(option, input) {
			a.onFinish(i)
			return nil
		}
	}

	if number, err := strconv.Atoi(input); err == nil && number >= 1 && number <= len(a.options) {
		a.onFinish(number - 1)
		return nil
	}

	return botApi.NewMessage(a.chatID, "Lựa chọn không hợp lệ, vui lòng chọn một mục trên bàn phím.")
}
