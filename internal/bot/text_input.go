package bot

import (
	"strings"

	"github.com/go-playground/validator/v10"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const skipButton = "Bỏ qua"

var validate = validator.New()

type validation struct {
	function     func(input string) bool
	errorMessage string
}

type textInput struct {
	chatID      int64
	initMessage string
	skippable   bool
	buttons     []string
	onFinish    func(input string)
	validations []validation
}

func newTextInput(chatID int64, initMessage string, onFinish func(input string)) *textInput {
	return &textInput{chatID: chatID, initMessage: initMessage, onFinish: onFinish}
}

func newOptionalTextInput(chatID int64, initMessage string, onFinish func(input string)) *textInput {
	input := newTextInput(chatID, initMessage, onFinish)
	input.skippable = true
	return input
}

func (a *textInput) AddValidation(validation validation) {
	a.validations = append(a.validations, validation)
}

// AddButtons offers extra reply buttons; their text is passed through validations like typed input.
func (a *textInput) AddButtons(buttons ...string) {
	a.buttons = append(a.buttons, buttons...)
}

func (a *textInput) InitMessage() botApi.Chattable {
	msg := botApi.NewMessage(a.chatID, a.initMessage)
	buttons := a.buttons
	if a.skippable {
		buttons = append(buttons, skipButton)
	}
	msg.ReplyMarkup = keyboardWithExit(buttons...)
	return msg
}

func (a *textInput) HandleInput(input string) botApi.Chattable {

	input = strings.TrimSpace(input)

	if a.skippable && input == skipButton {
		a.onFinish("")
		return nil
	}

	if input == "" {
		return botApi.NewMessage(a.chatID, "Vui lòng nhập nội dung.")
	}

	for _, _validation := range a.validations {
		if !_validation.function(input) {
			return botApi.NewMessage(a.chatID, _validation.errorMessage)
		}
	}

	a.onFinish(input)
	return nil
}

func emailValidation() validation {
	return validation{
		function:     func(input string) bool { return validate.Var(input, "email") == nil },
		errorMessage: "Email không hợp lệ, vui lòng nhập lại.",
	}
}

func minLengthValidation(length int, errorMessage string) validation {
	return validation{
		function:     func(input string) bool { return len([]rune(input)) >= length },
		errorMessage: errorMessage,
	}
}

func maxLengthValidation(length int, errorMessage string) validation {
	return validation{
		function:     func(input string) bool { return len([]rune(input)) <= length },
		errorMessage: errorMessage,
	}
}
