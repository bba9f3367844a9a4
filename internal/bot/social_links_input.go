package bot

import (
	"fmt"
	"strings"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
	"github.com/vieclam/jobportal/internal/domain/models"
)

const (
	doneButton       = "Xong"
	clearLinksButton = "Xóa các liên kết"
	maxSocialLinks   = 6
)

// socialLinksInput collects platform and URL pairs until the user presses done.
type socialLinksInput struct {
	chatID          int64
	current         func() []models.SocialLink
	links           []models.SocialLink
	pendingPlatform models.SocialPlatform
	onFinish        func(links []models.SocialLink)
}

func newSocialLinksInput(chatID int64, current func() []models.SocialLink,
	onFinish func(links []models.SocialLink)) *socialLinksInput {

	return &socialLinksInput{chatID: chatID, current: current, onFinish: onFinish}
}

func (a *socialLinksInput) InitMessage() botApi.Chattable {

	a.links = append([]models.SocialLink(nil), a.current()...)
	a.pendingPlatform = ""

	text := fmt.Sprintf("Chọn mạng xã hội để thêm liên kết (tối đa %d), hoặc bấm «%s» để tiếp tục.",
		maxSocialLinks, doneButton)
	if len(a.links) > 0 {
		text += "\n\nĐã có:\n" + describeLinks(a.links)
	}

	msg := botApi.NewMessage(a.chatID, text)
	msg.ReplyMarkup = a.platformKeyboard()
	return msg
}

func (a *socialLinksInput) HandleInput(input string) botApi.Chattable {

	input = strings.TrimSpace(input)

	if a.pendingPlatform != "" {
		if validate.Var(input, "url") != nil {
			return botApi.NewMessage(a.chatID, "Đường dẫn không hợp lệ, ví dụ: https://facebook.com/tencongty")
		}

		a.links = append(a.links, models.SocialLink{Platform: a.pendingPlatform, URL: input})
		a.pendingPlatform = ""

		if len(a.links) >= maxSocialLinks {
			a.onFinish(a.links)
			return nil
		}

		msg := botApi.NewMessage(a.chatID, "Đã thêm liên kết. Chọn mạng xã hội tiếp theo hoặc bấm «"+doneButton+"».")
		msg.ReplyMarkup = a.platformKeyboard()
		return msg
	}

	switch input {
	case doneButton:
		a.onFinish(a.links)
		return nil
	case clearLinksButton:
		a.links = nil
		msg := botApi.NewMessage(a.chatID, "Đã xóa các liên kết.")
		msg.ReplyMarkup = a.platformKeyboard()
		return msg
	}

	platform, err := models.ToSocialPlatform(input)
	if err != nil {
		return botApi.NewMessage(a.chatID, "Vui lòng chọn mạng xã hội trên bàn phím.")
	}

	a.pendingPlatform = platform
	return botApi.NewMessage(a.chatID, "Nhập đường dẫn "+string(platform)+":")
}

func (a *socialLinksInput) platformKeyboard() botApi.ReplyKeyboardMarkup {
	buttons := lo.Map(models.SocialPlatforms, func(platform models.SocialPlatform, _ int) string {
		return string(platform)
	})
	buttons = append(buttons, doneButton)
	if len(a.links) > 0 {
		buttons = append(buttons, clearLinksButton)
	}
	return keyboardWithBack(buttons...)
}

func describeLinks(links []models.SocialLink) string {
	return strings.Join(lo.Map(links, func(link models.SocialLink, _ int) string {
		return "• " + string(link.Platform) + ": " + link.URL
	}), "\n")
}
