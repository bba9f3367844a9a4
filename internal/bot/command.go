package bot

import (
	"context"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
	"github.com/vieclam/jobportal/internal/logger"
	"github.com/vieclam/jobportal/internal/metrics"
)

type apiInterface interface {
	Send(chattable botApi.Chattable) (botApi.Message, error)
}

type command interface {
	WithKeyboardOnFinalMessage(keyboard func() botApi.ReplyKeyboardMarkup)
	WithFinishCallback(func())
	Run()
	OnUserInput(input string)
}

type saveable interface {
	SaveState() ([]byte, error)
	LoadState(data []byte) error
}

func sendWithLogError(api apiInterface, chattable botApi.Chattable) (botApi.Message, error) {
	if chattable == nil {
		return botApi.Message{}, nil
	}
	msg, err := api.Send(chattable)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).
			Errorf("error occured while sending message: %v", err)
	}
	return msg, err
}

// formCommand walks the user through a fixed list of inputs and calls
// onComplete once the last one is answered. Input callbacks move it forward
// with next or send it back with retryFrom.
type formCommand struct {
	ctx                  context.Context
	api                  apiInterface
	chatID               int64
	name                 string
	inputHandlers        []inputHandler
	curHandlerIndex      int
	reprompt             bool
	finished             bool
	onComplete           func()
	finishCallback       func()
	finalMessageKeyboard func() botApi.ReplyKeyboardMarkup
}

func newFormCommand(ctx context.Context, api apiInterface, chatID int64, name string) *formCommand {
	return &formCommand{ctx: ctx, api: api, chatID: chatID, name: name}
}

func (c *formCommand) WithFinishCallback(callback func()) {
	c.finishCallback = callback
}

func (c *formCommand) WithKeyboardOnFinalMessage(keyboard func() botApi.ReplyKeyboardMarkup) {
	c.finalMessageKeyboard = keyboard
}

func (c *formCommand) Run() {
	_, _ = sendWithLogError(c.api, c.inputHandlers[c.curHandlerIndex].InitMessage())
}

func (c *formCommand) OnUserInput(input string) {

	if c.finished || c.curHandlerIndex >= len(c.inputHandlers) {
		return
	}

	previousIndex := c.curHandlerIndex
	msg := c.inputHandlers[c.curHandlerIndex].HandleInput(input)

	if c.finished {
		return
	}

	handlerChanged := previousIndex != c.curHandlerIndex
	allHandlersFinished := c.curHandlerIndex >= len(c.inputHandlers)

	if !handlerChanged && !c.reprompt {
		_, _ = sendWithLogError(c.api, msg)
		return
	}
	c.reprompt = false

	if !allHandlersFinished {
		_, _ = sendWithLogError(c.api, c.inputHandlers[c.curHandlerIndex].InitMessage())
		return
	}

	if c.onComplete != nil {
		c.onComplete()
	}

	if c.reprompt && !c.finished {
		c.reprompt = false
		_, _ = sendWithLogError(c.api, c.inputHandlers[c.curHandlerIndex].InitMessage())
	}
}

func (c *formCommand) next() {
	c.curHandlerIndex++
}

// retryFrom reports text and asks again starting with the input at index.
func (c *formCommand) retryFrom(index int, text string) {
	if text != "" {
		_, _ = sendWithLogError(c.api, botApi.NewMessage(c.chatID, text))
	}
	c.curHandlerIndex = index
	c.reprompt = true
}

func (c *formCommand) finish(text string) {
	metrics.CompletedCommandsCounter.WithLabelValues(c.name).Inc()
	c.end(text)
}

func (c *formCommand) fail(err error) {
	c.end(errorText(err))
}

func (c *formCommand) end(text string) {
	c.finished = true

	if text != "" {
		msg := botApi.NewMessage(c.chatID, text)
		if c.finalMessageKeyboard != nil {
			msg.ReplyMarkup = c.finalMessageKeyboard()
		}
		_, _ = sendWithLogError(c.api, msg)
	}

	if c.finishCallback != nil {
		c.finishCallback()
	}
}
