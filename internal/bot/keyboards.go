package bot

import (
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
	"github.com/vieclam/jobportal/internal/auth"
)

const (
	backToMenuCommandName = "Về menu chính"
	backButton            = "Quay lại"
	buttonsPerRow         = 3
)

func menuKeyboard(destination auth.Destination) botApi.ReplyKeyboardMarkup {
	switch destination {
	case auth.DestinationJobSeeker:
		return keyboard(
			[]string{browseJobsCommandName, myApplicationsCommandName},
			[]string{logoutCommandName},
		)
	case auth.DestinationEmployer:
		return keyboard(
			[]string{createJobCommandName, myJobsCommandName},
			[]string{onboardingCommandName, buyAdvertisementCommandName},
			[]string{logoutCommandName},
		)
	case auth.DestinationAdmin:
		return keyboard(
			[]string{moderateCommandName, browseJobsCommandName},
			[]string{logoutCommandName},
		)
	default:
		return keyboard(
			[]string{browseJobsCommandName},
			[]string{loginCommandName, registerCommandName},
			[]string{forgotPasswordCommandName, verifyCommandName},
		)
	}
}

func keyboardWithExit(buttons ...string) botApi.ReplyKeyboardMarkup {
	rows := lo.Chunk(buttons, buttonsPerRow)
	rows = append(rows, []string{backToMenuCommandName})
	return keyboard(rows...)
}

func keyboardWithBack(buttons ...string) botApi.ReplyKeyboardMarkup {
	rows := lo.Chunk(buttons, buttonsPerRow)
	rows = append(rows, []string{backButton, backToMenuCommandName})
	return keyboard(rows...)
}

func keyboard(rows ...[]string) botApi.ReplyKeyboardMarkup {
	keyboardRows := lo.Map(rows, func(row []string, _ int) []botApi.KeyboardButton {
		return botApi.NewKeyboardButtonRow(lo.Map(row, func(text string, _ int) botApi.KeyboardButton {
			return botApi.NewKeyboardButton(text)
		})...)
	})
	return botApi.NewReplyKeyboard(keyboardRows...)
}
