package bot

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vieclam/jobportal/internal/clients/jobportal"
	"github.com/vieclam/jobportal/internal/domain/models"
)

type mockApi struct {
	SentMessages []botApi.Chattable
}

func (m *mockApi) Send(chattable botApi.Chattable) (botApi.Message, error) {
	m.SentMessages = append(m.SentMessages, chattable)
	return botApi.Message{}, nil
}

func (m *mockApi) texts() []string {
	texts := make([]string, 0, len(m.SentMessages))
	for _, chattable := range m.SentMessages {
		if msg, ok := chattable.(botApi.MessageConfig); ok {
			texts = append(texts, msg.Text)
		}
	}
	return texts
}

func (m *mockApi) lastText() string {
	texts := m.texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func (m *mockApi) hasTextContaining(part string) bool {
	for _, text := range m.texts() {
		if strings.Contains(text, part) {
			return true
		}
	}
	return false
}

type mockPortal struct {
	mock.Mock
}

func (m *mockPortal) Login(_ context.Context, request models.LoginRequest) (string, error) {
	args := m.Called(request)
	return args.String(0), args.Error(1)
}

func (m *mockPortal) Register(_ context.Context, request models.RegisterRequest) error {
	return m.Called(request).Error(0)
}

func (m *mockPortal) VerifyOTP(_ context.Context, request models.VerifyOTPRequest) error {
	return m.Called(request).Error(0)
}

func (m *mockPortal) ResendOTP(_ context.Context, email string) error {
	return m.Called(email).Error(0)
}

func (m *mockPortal) ForgotPassword(_ context.Context, email string) error {
	return m.Called(email).Error(0)
}

func (m *mockPortal) ResetPassword(_ context.Context, request models.ResetPasswordRequest) error {
	return m.Called(request).Error(0)
}

func (m *mockPortal) SearchJobPostings(_ context.Context, parameters jobportal.JobSearchParameters) (jobportal.JobPostingPage, error) {
	args := m.Called(parameters)
	return args.Get(0).(jobportal.JobPostingPage), args.Error(1)
}

func (m *mockPortal) GetActiveAdvertisements(_ context.Context, position models.AdvertisementPosition) ([]models.Advertisement, error) {
	args := m.Called(position)
	return args.Get(0).([]models.Advertisement), args.Error(1)
}

func (m *mockPortal) GetMyResumes(_ context.Context) ([]models.Resume, error) {
	args := m.Called()
	return args.Get(0).([]models.Resume), args.Error(1)
}

func (m *mockPortal) ApplyForJob(_ context.Context, request models.ApplicationRequest) (models.JobApplication, error) {
	args := m.Called(request)
	return args.Get(0).(models.JobApplication), args.Error(1)
}

func (m *mockPortal) CreateEmployerProfile(_ context.Context, profile models.EmployerProfile) (models.EmployerProfile, error) {
	args := m.Called(profile)
	return args.Get(0).(models.EmployerProfile), args.Error(1)
}

func (m *mockPortal) GetEmployerProfile(_ context.Context) (models.EmployerProfile, error) {
	args := m.Called()
	return args.Get(0).(models.EmployerProfile), args.Error(1)
}

func (m *mockPortal) CreateJobPosting(_ context.Context, draft models.JobPostingDraft) (models.JobPosting, error) {
	args := m.Called(draft)
	return args.Get(0).(models.JobPosting), args.Error(1)
}

func (m *mockPortal) GetAdvertisementPackages(_ context.Context) ([]models.AdvertisementPackage, error) {
	args := m.Called()
	return args.Get(0).([]models.AdvertisementPackage), args.Error(1)
}

func (m *mockPortal) CreateAdvertisement(_ context.Context, request models.AdvertisementRequest) (models.Advertisement, error) {
	args := m.Called(request)
	return args.Get(0).(models.Advertisement), args.Error(1)
}

func (m *mockPortal) GetPendingJobPostings(_ context.Context) ([]models.JobPosting, error) {
	args := m.Called()
	return args.Get(0).([]models.JobPosting), args.Error(1)
}

func (m *mockPortal) ApproveJobPosting(_ context.Context, id int) error {
	return m.Called(id).Error(0)
}

func (m *mockPortal) RejectJobPosting(_ context.Context, id int, reason string) error {
	return m.Called(id, reason).Error(0)
}

func (m *mockPortal) DeleteJobPosting(_ context.Context, id int) error {
	return m.Called(id).Error(0)
}

func (m *mockPortal) CountActiveJobPostings(_ context.Context) (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *mockPortal) GetMyApplications(_ context.Context) ([]models.JobApplication, error) {
	args := m.Called()
	return args.Get(0).([]models.JobApplication), args.Error(1)
}

func (m *mockPortal) GetEmployerJobPostings(_ context.Context, employerID int) ([]models.JobPosting, error) {
	args := m.Called(employerID)
	return args.Get(0).([]models.JobPosting), args.Error(1)
}

type fakeCatalog struct {
	cities []models.City
	tags   []models.JobTag
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		cities: []models.City{{ID: 1, Name: "Hồ Chí Minh", IsActive: true}, {ID: 2, Name: "Hà Nội", IsActive: true}},
		tags:   []models.JobTag{{ID: 4, Name: "Phục vụ"}, {ID: 5, Name: "Thu ngân"}},
	}
}

func (c *fakeCatalog) GetActiveCities(_ context.Context) ([]models.City, error) {
	return c.cities, nil
}

func (c *fakeCatalog) FindCity(_ context.Context, name string) (models.City, bool, error) {
	for _, city := range c.cities {
		if strings.EqualFold(city.Name, strings.TrimSpace(name)) {
			return city, true, nil
		}
	}
	return models.City{}, false, nil
}

func (c *fakeCatalog) GetJobTags(_ context.Context) ([]models.JobTag, error) {
	return c.tags, nil
}

type memoryData struct {
	data map[string][]byte
}

func newMemoryData() *memoryData {
	return &memoryData{data: map[string][]byte{}}
}

func (m *memoryData) Save(_ context.Context, id string, data []byte) error {
	m.data[id] = data
	return nil
}

func (m *memoryData) Load(_ context.Context, id string) ([]byte, error) {
	return m.data[id], nil
}

func (m *memoryData) LoadAndRemove(_ context.Context, id string) ([]byte, error) {
	data := m.data[id]
	delete(m.data, id)
	return data, nil
}

func (m *memoryData) Remove(_ context.Context, id string) error {
	delete(m.data, id)
	return nil
}

type memorySessions struct {
	tokens map[int64]string
}

func newMemorySessions() *memorySessions {
	return &memorySessions{tokens: map[int64]string{}}
}

func (m *memorySessions) Save(_ context.Context, chatID int64, token string) error {
	m.tokens[chatID] = token
	return nil
}

func (m *memorySessions) Get(_ context.Context, chatID int64) (string, error) {
	return m.tokens[chatID], nil
}

func (m *memorySessions) Delete(_ context.Context, chatID int64) error {
	delete(m.tokens, chatID)
	return nil
}

func makeToken(t *testing.T, role models.Role) string {
	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	assert.NoError(t, err)
	body, err := json.Marshal(map[string]any{
		"sub":  "7",
		"role": string(role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	assert.NoError(t, err)

	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(body) + ".c2lnbmF0dXJl"
}

func apiError(status int) error {
	return &jobportal.APIError{StatusCode: status}
}

func simulateUserInput(cmd command, inputs []string) {
	for _, input := range inputs {
		cmd.OnUserInput(input)
	}
}
