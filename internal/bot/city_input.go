package bot

import (
	"context"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
	"github.com/vieclam/jobportal/internal/domain/models"
)

const anyCityButton = "Tất cả thành phố"

const cityKeyboardSize = 6

type cityCatalog interface {
	GetActiveCities(ctx context.Context) ([]models.City, error)
	FindCity(ctx context.Context, name string) (models.City, bool, error)
}

type cityInput struct {
	ctx      context.Context
	chatID   int64
	prompt   string
	optional bool
	cities   cityCatalog
	onFinish func(city models.City)
}

func newCityInput(ctx context.Context, chatID int64, prompt string, cities cityCatalog,
	onFinish func(city models.City)) *cityInput {

	return &cityInput{ctx: ctx, chatID: chatID, prompt: prompt, cities: cities, onFinish: onFinish}
}

// newOptionalCityInput accepts "any city", reported as a zero City.
func newOptionalCityInput(ctx context.Context, chatID int64, prompt string, cities cityCatalog,
	onFinish func(city models.City)) *cityInput {

	input := newCityInput(ctx, chatID, prompt, cities, onFinish)
	input.optional = true
	return input
}

func (a *cityInput) InitMessage() botApi.Chattable {

	var buttons []string
	if cities, err := a.cities.GetActiveCities(a.ctx); err == nil {
		buttons = lo.Map(cities[:min(len(cities), cityKeyboardSize)], func(city models.City, _ int) string {
			return city.Name
		})
	} else {
		logAPIError(err)
	}
	if a.optional {
		buttons = append(buttons, anyCityButton)
	}

	msg := botApi.NewMessage(a.chatID, a.prompt)
	msg.ReplyMarkup = keyboardWithExit(buttons...)
	return msg
}

func (a *cityInput) HandleInput(input string) botApi.Chattable {

	if a.optional && input == anyCityButton {
		a.onFinish(models.City{})
		return nil
	}

	city, found, err := a.cities.FindCity(a.ctx, input)
	if err != nil {
		return botApi.NewMessage(a.chatID, errorText(err))
	}
	if !found {
		return botApi.NewMessage(a.chatID, "Không tìm thấy thành phố, vui lòng chọn trên bàn phím hoặc nhập lại.")
	}

	a.onFinish(city)
	return nil
}
