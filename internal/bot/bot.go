package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"github.com/vieclam/jobportal/internal/auth"
	"github.com/vieclam/jobportal/internal/clients/jobportal"
	"github.com/vieclam/jobportal/internal/domain/events"
	"github.com/vieclam/jobportal/internal/logger"
)

const userContextsDataID = "user_contexts"

type Repositories struct {
	Data     dataRepository
	Sessions sessionRepository
}

type Services struct {
	Catalog    jobCatalog
	Onboarding onboardingService
	Pending    *auth.PendingVerifications
}

type dataRepository interface {
	Save(ctx context.Context, id string, data []byte) error
	LoadAndRemove(ctx context.Context, id string) ([]byte, error)
}

type sessionRepository interface {
	Save(ctx context.Context, chatID int64, token string) error
	Get(ctx context.Context, chatID int64) (string, error)
	Delete(ctx context.Context, chatID int64) error
}

type portalAPI interface {
	loginAPI
	registrationAPI
	passwordResetAPI
	jobSeekerAPI
	employerProfileAPI
	jobPostingCreator
	advertisementAPI
	moderationAPI
	activeJobsCounter
	applicationsAPI
	employerJobsAPI
}

// portalFactory binds the API client to the session of one chat.
type portalFactory func(session jobportal.TokenSource, onUnauthorized func()) portalAPI

var slashCommands = map[string]string{
	"start":        startCommandName,
	"menu":         backToMenuCommandName,
	"login":        loginCommandName,
	"register":     registerCommandName,
	"verify":       verifyCommandName,
	"forgot":       forgotPasswordCommandName,
	"jobs":         browseJobsCommandName,
	"applications": myApplicationsCommandName,
	"profile":      onboardingCommandName,
	"newjob":       createJobCommandName,
	"myjobs":       myJobsCommandName,
	"ads":          buyAdvertisementCommandName,
	"moderate":     moderateCommandName,
	"logout":       logoutCommandName,
}

var globalCommands = []string{
	backToMenuCommandName, loginCommandName, registerCommandName, verifyCommandName,
	forgotPasswordCommandName, browseJobsCommandName, myApplicationsCommandName, onboardingCommandName,
	createJobCommandName, myJobsCommandName, buyAdvertisementCommandName, moderateCommandName, logoutCommandName,
}

var requiredDestination = map[string]auth.Destination{
	myApplicationsCommandName:   auth.DestinationJobSeeker,
	onboardingCommandName:       auth.DestinationEmployer,
	createJobCommandName:        auth.DestinationEmployer,
	myJobsCommandName:           auth.DestinationEmployer,
	buyAdvertisementCommandName: auth.DestinationEmployer,
	moderateCommandName:         auth.DestinationAdmin,
}

// Only these commands keep enough state to be resumed after a restart.
var saveableCommands = []string{onboardingCommandName, createJobCommandName}

type Bot struct {
	api          apiInterface
	botAPI       *botApi.BotAPI
	newPortal    portalFactory
	bus          EventBus.Bus
	repositories Repositories
	services     Services
	ctx          context.Context
	cancel       context.CancelFunc
	mu           sync.Mutex
	userContexts map[int64]*userContext
	sessions     map[int64]*auth.Session
}

func NewBot(token string, client *jobportal.Client, bus EventBus.Bus, repositories Repositories,
	services Services) (*Bot, error) {

	if client == nil {
		return nil, errors.New("api client is nil")
	}

	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	err = botApi.SetLogger(log.StandardLogger())
	if err != nil {
		return nil, err
	}

	factory := func(session jobportal.TokenSource, onUnauthorized func()) portalAPI {
		return client.WithSession(session, onUnauthorized)
	}

	createdBot, err := newBot(api, factory, bus, repositories, services)
	if err != nil {
		return nil, err
	}
	createdBot.botAPI = api
	return createdBot, nil
}

func newBot(api apiInterface, factory portalFactory, bus EventBus.Bus, repositories Repositories,
	services Services) (*Bot, error) {

	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	if repositories.Data == nil {
		return nil, errors.New("data repository is nil")
	}

	if repositories.Sessions == nil {
		return nil, errors.New("session repository is nil")
	}

	if services.Catalog == nil || services.Onboarding == nil || services.Pending == nil {
		return nil, errors.New("bot services are not set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	createdBot := &Bot{
		api:          api,
		newPortal:    factory,
		bus:          bus,
		repositories: repositories,
		services:     services,
		ctx:          ctx,
		cancel:       cancel,
		userContexts: make(map[int64]*userContext),
		sessions:     make(map[int64]*auth.Session),
	}

	// Async: the 401 is raised while the chat's context is locked by the
	// handler that sent the request.
	if err := bus.SubscribeAsync(events.SessionExpiredTopic, createdBot.onSessionExpired, false); err != nil {
		cancel()
		return nil, err
	}
	if err := bus.Subscribe(events.ProfileCreatedTopic, createdBot.onProfileCreated); err != nil {
		cancel()
		return nil, err
	}
	if err := bus.Subscribe(events.ApplicationSubmittedTopic, createdBot.onApplicationSubmitted); err != nil {
		cancel()
		return nil, err
	}
	return createdBot, nil
}

func (b *Bot) Run() {

	err := b.loadUserContexts()
	if err != nil {
		log.Errorf("Error loading user contexts: %v", err)
	}

	updateConfig := botApi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.botAPI.GetUpdatesChan(updateConfig)

	for update := range updates {

		if update.Message == nil {
			continue
		}

		if !update.Message.Chat.IsPrivate() {
			continue
		}

		go b.handleMessage(update.Message)
	}
}

func (b *Bot) Stop() {
	if b.botAPI != nil {
		b.botAPI.StopReceivingUpdates()
	}

	err := b.saveUserContexts()
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("Error saving user contexts: %v", err)
	}

	b.cancel()
	b.bus.WaitAsync()
}

func (b *Bot) handleMessage(message *botApi.Message) {

	chatID := message.Chat.ID
	user := b.userContext(chatID)

	user.mu.Lock()
	defer user.mu.Unlock()

	if name := resolveCommand(message); name != "" {
		b.handleCommand(user, name)
		return
	}
	b.handleInput(user, message.Text)
}

func resolveCommand(message *botApi.Message) string {
	if slash := message.Command(); slash != "" {
		if name, ok := slashCommands[strings.ToLower(slash)]; ok {
			return name
		}
		return slash
	}

	text := strings.TrimSpace(message.Text)
	if lo.Contains(globalCommands, text) {
		return text
	}
	return ""
}

func (b *Bot) handleCommand(user *userContext, name string) {

	chatID := user.chatID
	session := b.sessionFor(chatID)
	portal := b.portalFor(chatID, session)

	var response botApi.Chattable

	switch name {
	case startCommandName:
		user.Reset()
		response = welcomeMessage(b.ctx, chatID, portal, session)
	case backToMenuCommandName:
		user.Reset()
		msg := botApi.NewMessage(chatID, "Đã quay về menu chính.")
		msg.ReplyMarkup = menuKeyboard(destinationOf(session))
		response = msg
	case logoutCommandName:
		user.Reset()
		response = logoutMessage(chatID, session)
	case myApplicationsCommandName, myJobsCommandName:
		user.Reset()
		if err := authorize(name, session); err != nil {
			response = b.errorMessage(chatID, session, err)
			break
		}
		if name == myApplicationsCommandName {
			response = myApplicationsMessage(b.ctx, chatID, portal, session)
		} else {
			response = myJobsMessage(b.ctx, chatID, portal, session)
		}
	default:
		if err := authorize(name, session); err != nil {
			user.Reset()
			response = b.errorMessage(chatID, session, err)
			break
		}

		ctx, cancel := context.WithCancel(b.ctx)
		cmd, err := b.createCommand(ctx, name, chatID, session, portal)
		if err != nil {
			cancel()
			user.Reset()
			response = b.errorMessage(chatID, session, err)
			break
		}
		user.RunCommand(cmd, name, cancel, b.menuFor(session))
	}

	_, _ = sendWithLogError(b.api, response)
}

func authorize(name string, session *auth.Session) error {
	required, ok := requiredDestination[name]
	if !ok {
		return nil
	}
	destination := destinationOf(session)
	if destination == auth.DestinationLogin {
		return errNotSignedIn
	}
	if destination != required {
		return errWrongRole
	}
	return nil
}

var errUnknownCommand = errors.New("unknown command")

func (b *Bot) createCommand(ctx context.Context, name string, chatID int64, session *auth.Session,
	portal portalAPI) (command, error) {

	switch name {
	case loginCommandName:
		return newLoginCommand(ctx, b.api, chatID, portal, session), nil
	case registerCommandName:
		return newRegisterCommand(ctx, b.api, chatID, portal, b.services.Pending), nil
	case verifyCommandName:
		return newVerifyCommand(ctx, b.api, chatID, portal, b.services.Pending)
	case forgotPasswordCommandName:
		return newPasswordResetCommand(ctx, b.api, chatID, portal, b.services.Pending), nil
	case browseJobsCommandName:
		return newBrowseJobsCommand(ctx, b.api, chatID, portal, b.services.Catalog, session, b.bus), nil
	case onboardingCommandName:
		return newOnboardingCommand(ctx, b.api, chatID, b.services.Onboarding, portal, b.services.Catalog)
	case createJobCommandName:
		return newCreateJobCommand(ctx, b.api, chatID, portal, b.services.Catalog), nil
	case buyAdvertisementCommandName:
		return newBuyAdvertisementCommand(ctx, b.api, chatID, portal)
	case moderateCommandName:
		return newModerateCommand(ctx, b.api, chatID, portal)
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownCommand, name)
	}
}

func (b *Bot) handleInput(user *userContext, input string) {

	if user.HasRunningCommand() {
		user.OnUserInput(input)
		return
	}

	session := b.sessionFor(user.chatID)
	msg := botApi.NewMessage(user.chatID, commandExpectedText)
	msg.ReplyMarkup = menuKeyboard(destinationOf(session))
	_, _ = sendWithLogError(b.api, msg)
}

func (b *Bot) errorMessage(chatID int64, session *auth.Session, err error) botApi.Chattable {

	text := errorText(err)
	if errors.Is(err, errUnknownCommand) {
		text = unknownCommandText
	}
	if text == "" {
		return nil
	}

	msg := botApi.NewMessage(chatID, text)
	msg.ReplyMarkup = menuKeyboard(destinationOf(session))
	return msg
}

func (b *Bot) menuFor(session *auth.Session) func() botApi.ReplyKeyboardMarkup {
	return func() botApi.ReplyKeyboardMarkup {
		return menuKeyboard(destinationOf(session))
	}
}

func (b *Bot) userContext(chatID int64) *userContext {
	b.mu.Lock()
	defer b.mu.Unlock()

	user, ok := b.userContexts[chatID]
	if !ok {
		user = newUserContext(chatID)
		b.userContexts[chatID] = user
	}
	return user
}

// sessionFor returns the chat's auth context, restoring a persisted token the
// first time the chat is seen. Token changes are written back to the store.
func (b *Bot) sessionFor(chatID int64) *auth.Session {
	b.mu.Lock()
	defer b.mu.Unlock()

	if session, ok := b.sessions[chatID]; ok {
		return session
	}

	token, err := b.repositories.Sessions.Get(b.ctx, chatID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to load session of chat %d: %v", chatID, err)
	}

	session := auth.RestoreSession(token, time.Now())
	if token != "" && !session.IsSignedIn() {
		b.persistToken(chatID, "")
	}

	session.OnChange(func(token string) {
		b.persistToken(chatID, token)
	})
	b.sessions[chatID] = session
	return session
}

func (b *Bot) persistToken(chatID int64, token string) {
	var err error
	if token == "" {
		err = b.repositories.Sessions.Delete(context.Background(), chatID)
	} else {
		err = b.repositories.Sessions.Save(context.Background(), chatID, token)
	}
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to persist session of chat %d: %v", chatID, err)
	}
}

func (b *Bot) portalFor(chatID int64, session *auth.Session) portalAPI {
	return b.newPortal(session, func() {
		b.bus.Publish(events.SessionExpiredTopic, events.SessionExpired{ChatID: chatID})
	})
}

func (b *Bot) onSessionExpired(event events.SessionExpired) {

	user := b.userContext(event.ChatID)
	user.mu.Lock()
	defer user.mu.Unlock()

	// A command that ended on the 401 has already shown the error.
	if !user.HasRunningCommand() {
		return
	}
	user.Reset()

	msg := botApi.NewMessage(event.ChatID, sessionExpiredText)
	msg.ReplyMarkup = menuKeyboard(auth.DestinationLogin)
	_, _ = sendWithLogError(b.api, msg)
}

func (b *Bot) onProfileCreated(event events.ProfileCreated) {
	log.Infof("employer profile %d (%s) created from chat %d", event.Profile.ID, event.Profile.CompanyName, event.ChatID)
}

func (b *Bot) onApplicationSubmitted(event events.ApplicationSubmitted) {
	log.Infof("chat %d applied for job posting %d", event.ChatID, event.JobPostingID)
}

func (b *Bot) saveUserContexts() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	saved := make(map[int64]*userContext)
	for chatID, user := range b.userContexts {
		user.mu.Lock()
		if lo.Contains(saveableCommands, user.curCommandName) && user.HasRunningCommand() {
			saved[chatID] = user
		}
		user.mu.Unlock()
	}

	if len(saved) == 0 {
		return nil
	}

	data, err := json.Marshal(saved)
	if err != nil {
		return err
	}
	return b.repositories.Data.Save(context.Background(), userContextsDataID, data)
}

func (b *Bot) loadUserContexts() error {
	data, err := b.repositories.Data.LoadAndRemove(b.ctx, userContextsDataID)
	if err != nil || data == nil {
		return err
	}

	loaded := make(map[int64]*userContext)
	if err = json.Unmarshal(data, &loaded); err != nil {
		return err
	}

	var errs []error
	for chatID, user := range loaded {

		if !lo.Contains(saveableCommands, user.curCommandName) {
			continue
		}

		if err = b.resumeCommand(user); err != nil {
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
			continue
		}

		b.mu.Lock()
		b.userContexts[chatID] = user
		b.mu.Unlock()
	}

	return errors.Join(errs...)
}

func (b *Bot) resumeCommand(user *userContext) error {

	session := b.sessionFor(user.chatID)
	if err := authorize(user.curCommandName, session); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(b.ctx)
	cmd, err := b.createCommand(ctx, user.curCommandName, user.chatID, session, b.portalFor(user.chatID, session))
	if err != nil {
		cancel()
		return err
	}

	saveableCmd, ok := cmd.(saveable)
	if !ok {
		cancel()
		return fmt.Errorf("command %q can't be restored", user.curCommandName)
	}

	if err = saveableCmd.LoadState(user.curCommandState); err != nil {
		cancel()
		return err
	}

	user.ResumeCommandAfterBotRestart(cmd, cancel, b.menuFor(session))
	return nil
}

