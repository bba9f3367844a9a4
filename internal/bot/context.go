package bot

import (
	"context"
	"encoding/json"
	"sync"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type userContext struct {
	mu              sync.Mutex
	chatID          int64
	curCommand      command
	curCommandName  string
	curCommandState []byte
	cancel          context.CancelFunc
}

func newUserContext(chatID int64) *userContext {
	return &userContext{chatID: chatID}
}

func (u *userContext) RunCommand(command command, name string, cancel context.CancelFunc,
	menu func() botApi.ReplyKeyboardMarkup) {

	u.Reset()
	u.setCommand(command, name, cancel, menu)
	u.curCommand.Run()
}

func (u *userContext) ResumeCommandAfterBotRestart(command command, cancel context.CancelFunc,
	menu func() botApi.ReplyKeyboardMarkup) {

	u.setCommand(command, u.curCommandName, cancel, menu)
}

func (u *userContext) HasRunningCommand() bool {
	return u.curCommand != nil
}

func (u *userContext) OnUserInput(input string) {
	u.curCommand.OnUserInput(input)
}

// Reset abandons the running command and cancels its in-flight requests.
func (u *userContext) Reset() {
	if u.cancel != nil {
		u.cancel()
	}
	u.cancel = nil
	u.curCommand = nil
	u.curCommandName = ""
	u.curCommandState = nil
}

func (u *userContext) MarshalJSON() ([]byte, error) {

	var cmdState []byte
	var err error
	if u.curCommand != nil {
		if saveableCmd, ok := u.curCommand.(saveable); ok {
			cmdState, err = saveableCmd.SaveState()
		}
	}
	if err != nil {
		return nil, err
	}

	return json.Marshal(&struct {
		ChatID          int64  `json:"chatID"`
		CurCommandName  string `json:"curCommandName"`
		CurCommandState []byte `json:"curCommandState"`
	}{
		ChatID:          u.chatID,
		CurCommandName:  u.curCommandName,
		CurCommandState: cmdState,
	})
}

func (u *userContext) UnmarshalJSON(data []byte) error {

	aux := &struct {
		ChatID          int64  `json:"chatID"`
		CurCommandName  string `json:"curCommandName"`
		CurCommandState []byte `json:"curCommandState"`
	}{}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	u.chatID = aux.ChatID
	u.curCommandName = aux.CurCommandName
	u.curCommandState = aux.CurCommandState
	return nil
}

func (u *userContext) setCommand(command command, name string, cancel context.CancelFunc,
	menu func() botApi.ReplyKeyboardMarkup) {

	u.curCommand = command
	u.curCommandName = name
	u.cancel = cancel
	u.curCommand.WithFinishCallback(func() {
		if u.cancel != nil {
			u.cancel()
		}
		u.cancel = nil
		u.curCommand = nil
		u.curCommandName = ""
	})
	u.curCommand.WithKeyboardOnFinalMessage(menu)
}
