package bot

import (
	"strconv"
	"strings"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// itemInput asks for the number of an entry in a numbered list.
type itemInput[T any] struct {
	chatID   int64
	title    string
	items    []T
	describe func(T) string
	buttons  []string
	onFinish func(item T)
	onButton func(button string)
}

func newItemInput[T any](chatID int64, title string, items []T, describe func(T) string,
	onFinish func(item T)) *itemInput[T] {

	return &itemInput[T]{chatID: chatID, title: title, items: items, describe: describe, onFinish: onFinish}
}

// WithButtons adds extra reply buttons handled by onButton instead of item selection.
func (s *itemInput[T]) WithButtons(onButton func(button string), buttons ...string) *itemInput[T] {
	s.buttons = buttons
	s.onButton = onButton
	return s
}

func (s *itemInput[T]) InitMessage() botApi.Chattable {

	var text strings.Builder
	text.WriteString(s.title)
	text.WriteString("\n")
	for i, item := range s.items {
		text.WriteString("\n")
		text.WriteString(strconv.Itoa(i + 1))
		text.WriteString(". ")
		text.WriteString(s.describe(item))
	}

	msg := botApi.NewMessage(s.chatID, text.String())
	msg.ReplyMarkup = keyboardWithExit(append(numberButtons(len(s.items)), s.buttons...)...)
	return msg
}

func (s *itemInput[T]) HandleInput(input string) botApi.Chattable {

	input = strings.TrimSpace(input)
	for _, button := range s.buttons {
		if input == button {
			s.onButton(button)
			return nil
		}
	}

	number, err := strconv.Atoi(input)
	if err != nil {
		return botApi.NewMessage(s.chatID, "Vui lòng nhập số thứ tự.")
	}

	if number < 1 || number > len(s.items) {
		return botApi.NewMessage(s.chatID, "Không có mục nào với số thứ tự này.")
	}

	s.onFinish(s.items[number-1])
	return nil
}

func numberButtons(count int) []string {
	buttons := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		buttons = append(buttons, strconv.Itoa(i))
	}
	return buttons
}
