package bot

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vieclam/jobportal/internal/auth"
	"github.com/vieclam/jobportal/internal/clients/jobportal"
	"github.com/vieclam/jobportal/internal/domain/events"
	"github.com/vieclam/jobportal/internal/domain/models"
	"github.com/vieclam/jobportal/internal/onboarding"
	"github.com/vieclam/jobportal/internal/services"
)

const testChatID int64 = 1

func Test_LoginCmd_WhenValidCredentials_ShouldSignIn(t *testing.T) {

	assert := assert.New(t)

	portal := &mockPortal{}
	portal.On("Login", models.LoginRequest{Email: "an@mail.vn", Password: "secret"}).
		Return(makeToken(t, models.RoleJobSeeker), nil)
	session := auth.NewSession()
	finished := false

	cmd := newLoginCommand(context.Background(), &mockApi{}, testChatID, portal, session)
	cmd.WithFinishCallback(func() { finished = true })

	cmd.Run()
	simulateUserInput(cmd, []string{"An@Mail.vn", "secret"})

	assert.True(finished)
	assert.True(session.IsSignedIn())
	assert.Equal(auth.DestinationJobSeeker, destinationOf(session))
}

func Test_LoginCmd_WhenWrongPassword_ShouldAskAgain(t *testing.T) {

	assert := assert.New(t)

	api := &mockApi{}
	portal := &mockPortal{}
	portal.On("Login", models.LoginRequest{Email: "an@mail.vn", Password: "wrong"}).
		Return("", apiError(http.StatusUnauthorized))
	portal.On("Login", models.LoginRequest{Email: "an@mail.vn", Password: "secret"}).
		Return(makeToken(t, models.RoleJobSeeker), nil)
	session := auth.NewSession()
	finished := false

	cmd := newLoginCommand(context.Background(), api, testChatID, portal, session)
	cmd.WithFinishCallback(func() { finished = true })

	cmd.Run()
	simulateUserInput(cmd, []string{"an@mail.vn", "wrong"})

	assert.False(finished)
	assert.False(session.IsSignedIn())
	assert.True(api.hasTextContaining("Email hoặc mật khẩu không đúng"))

	simulateUserInput(cmd, []string{"an@mail.vn", "secret"})

	assert.True(finished)
	assert.True(session.IsSignedIn())
}

func Test_LoginCmd_WhenEmployerWithoutProfile_ShouldOfferOnboarding(t *testing.T) {

	assert := assert.New(t)

	api := &mockApi{}
	portal := &mockPortal{}
	portal.On("Login", mock.Anything).Return(makeToken(t, models.RoleEmployer), nil)
	portal.On("GetEmployerProfile").Return(models.EmployerProfile{}, apiError(http.StatusNotFound))

	cmd := newLoginCommand(context.Background(), api, testChatID, portal, auth.NewSession())

	cmd.Run()
	simulateUserInput(cmd, []string{"shop@mail.vn", "secret"})

	assert.Contains(api.lastText(), onboardingCommandName)
}

func Test_RegisterCmd_WhenValidData_ShouldVerifyOtp(t *testing.T) {

	assert := assert.New(t)

	api := &mockApi{}
	portal := &mockPortal{}
	pending := auth.NewPendingVerifications(time.Minute)
	portal.On("Register", models.RegisterRequest{
		Email:    "an@mail.vn",
		Password: "secret1",
		FullName: "Nguyễn Văn An",
		Role:     models.RoleJobSeeker,
	}).Return(nil)
	portal.On("ResendOTP", "an@mail.vn").Return(nil)
	portal.On("VerifyOTP", models.VerifyOTPRequest{Email: "an@mail.vn", OTP: "123456"}).Return(nil)
	finished := false

	cmd := newRegisterCommand(context.Background(), api, testChatID, portal, pending)
	cmd.WithFinishCallback(func() { finished = true })

	cmd.Run()
	simulateUserInput(cmd, []string{"an@mail.vn", "123", "secret1", "Nguyễn Văn An", "1"}) //short password first

	email, ok := pending.Email(testChatID, auth.PendingRegistration)
	assert.True(ok)
	assert.Equal("an@mail.vn", email)
	assert.False(finished)

	simulateUserInput(cmd, []string{resendCodeButton, "12ab", "123456"})

	assert.True(finished)
	portal.AssertCalled(t, "ResendOTP", "an@mail.vn")
	_, ok = pending.Email(testChatID, auth.PendingRegistration)
	assert.False(ok)
}

func Test_RegisterCmd_WhenEmailTaken_ShouldStartOver(t *testing.T) {

	assert := assert.New(t)

	api := &mockApi{}
	portal := &mockPortal{}
	portal.On("Register", mock.Anything).Return(apiError(http.StatusConflict))
	finished := false

	cmd := newRegisterCommand(context.Background(), api, testChatID, portal, auth.NewPendingVerifications(time.Minute))
	cmd.WithFinishCallback(func() { finished = true })

	cmd.Run()
	simulateUserInput(cmd, []string{"an@mail.vn", "secret1", "An", "2"})

	assert.False(finished)
	assert.Equal(0, cmd.curHandlerIndex)
	assert.True(api.hasTextContaining("Email này đã được đăng ký"))
}

func Test_VerifyCmd_WhenNothingPending_ShouldFail(t *testing.T) {

	_, err := newVerifyCommand(context.Background(), &mockApi{}, testChatID, &mockPortal{},
		auth.NewPendingVerifications(time.Minute))

	assert.ErrorIs(t, err, errNoPendingVerification)
}

func Test_VerifyCmd_WhenWrongCode_ShouldWaitForValid(t *testing.T) {

	assert := assert.New(t)

	api := &mockApi{}
	portal := &mockPortal{}
	pending := auth.NewPendingVerifications(time.Minute)
	pending.Mark(testChatID, auth.PendingRegistration, "an@mail.vn")
	portal.On("VerifyOTP", models.VerifyOTPRequest{Email: "an@mail.vn", OTP: "111111"}).Return(apiError(http.StatusBadRequest))
	portal.On("VerifyOTP", models.VerifyOTPRequest{Email: "an@mail.vn", OTP: "123456"}).Return(nil)
	finished := false

	cmd, err := newVerifyCommand(context.Background(), api, testChatID, portal, pending)
	assert.NoError(err)
	cmd.WithFinishCallback(func() { finished = true })

	cmd.Run()
	cmd.OnUserInput("111111")
	assert.False(finished)
	assert.True(api.hasTextContaining("Mã xác thực không đúng"))

	cmd.OnUserInput("123456")
	assert.True(finished)
}

func Test_PasswordResetCmd_WhenValidData_ShouldResetPassword(t *testing.T) {

	assert := assert.New(t)

	portal := &mockPortal{}
	pending := auth.NewPendingVerifications(time.Minute)
	portal.On("ForgotPassword", "an@mail.vn").Return(nil)
	portal.On("ResetPassword", models.ResetPasswordRequest{Email: "an@mail.vn", OTP: "654321", NewPassword: "newpass"}).
		Return(nil)
	finished := false

	cmd := newPasswordResetCommand(context.Background(), &mockApi{}, testChatID, portal, pending)
	cmd.WithFinishCallback(func() { finished = true })

	cmd.Run()
	simulateUserInput(cmd, []string{"an@mail.vn", "654321", "newpass"})

	assert.True(finished)
	_, ok := pending.Email(testChatID, auth.PendingPasswordReset)
	assert.False(ok)
}

func Test_PasswordResetCmd_WhenCodeAlreadyRequested_ShouldSkipEmail(t *testing.T) {

	assert := assert.New(t)

	portal := &mockPortal{}
	pending := auth.NewPendingVerifications(time.Minute)
	pending.Mark(testChatID, auth.PendingPasswordReset, "an@mail.vn")
	portal.On("ResetPassword", models.ResetPasswordRequest{Email: "an@mail.vn", OTP: "654321", NewPassword: "newpass"}).
		Return(nil)
	finished := false

	cmd := newPasswordResetCommand(context.Background(), &mockApi{}, testChatID, portal, pending)
	cmd.WithFinishCallback(func() { finished = true })

	cmd.Run()
	simulateUserInput(cmd, []string{"654321", "newpass"})

	assert.True(finished)
	portal.AssertNotCalled(t, "ForgotPassword", mock.Anything)
}

func browseTestJobs() []models.JobPosting {
	return []models.JobPosting{
		{ID: 1, Title: "Phục vụ quán cà phê", Category: "F&B", HourlyRate: 25000},
		{ID: 2, Title: "Nhân viên bán hàng", Category: "Retail", HourlyRate: 22000},
		{ID: 3, Title: "Hỗ trợ sự kiện", Category: "Event", HourlyRate: 40000},
	}
}

func newBrowsePortal(keyword string) *mockPortal {
	portal := &mockPortal{}
	portal.On("SearchJobPostings", jobportal.JobSearchParameters{
		Keyword:  keyword,
		Status:   models.JobStatusActive,
		Page:     1,
		PageSize: services.BatchSize,
	}).Return(jobportal.JobPostingPage{Items: browseTestJobs(), TotalCount: 3}, nil)
	portal.On("GetActiveAdvertisements", models.PositionTop).
		Return([]models.Advertisement{{ID: 1, Title: "Tuyển gấp cuối tuần"}}, nil)
	return portal
}

func Test_BrowseJobsCmd_WhenCategorySelected_ShouldFilterLocally(t *testing.T) {

	assert := assert.New(t)

	api := &mockApi{}
	portal := newBrowsePortal("phục vụ")

	cmd := newBrowseJobsCommand(context.Background(), api, testChatID, portal, newFakeCatalog(),
		auth.NewSession(), EventBus.New())

	cmd.Run()
	simulateUserInput(cmd, []string{"phục vụ", anyCityButton})

	assert.Contains(api.lastText(), "Tuyển gấp cuối tuần")
	assert.Contains(api.lastText(), "Phục vụ quán cà phê")
	assert.Contains(api.lastText(), "Nhân viên bán hàng")

	simulateUserInput(cmd, []string{categoryButton, categoryLabel(services.CategoryRetail)})

	assert.Contains(api.lastText(), "Nhân viên bán hàng")
	assert.NotContains(api.lastText(), "Phục vụ quán cà phê")
	assert.NotContains(api.lastText(), "Tuyển gấp cuối tuần")

	simulateUserInput(cmd, []string{salaryButton, services.SalaryRanges[0].Label})

	assert.Contains(api.lastText(), "Không có việc làm phù hợp")
	portal.AssertNumberOfCalls(t, "SearchJobPostings", 1)
}

func Test_BrowseJobsCmd_WhenJobSeekerApplies_ShouldPublishEvent(t *testing.T) {

	assert := assert.New(t)

	api := &mockApi{}
	portal := newBrowsePortal("")
	portal.On("GetMyResumes").Return([]models.Resume{{ID: 3, Title: "CV phục vụ"}}, nil)
	portal.On("ApplyForJob", models.ApplicationRequest{ResumeID: 3, JobPostingID: 1, CoverNote: "Tôi có kinh nghiệm"}).
		Return(models.JobApplication{ID: 10}, nil)

	session := auth.NewSession()
	_, err := session.SignIn(makeToken(t, models.RoleJobSeeker))
	assert.NoError(err)

	bus := EventBus.New()
	var published *events.ApplicationSubmitted
	_ = bus.Subscribe(events.ApplicationSubmittedTopic, func(event events.ApplicationSubmitted) { published = &event })

	cmd := newBrowseJobsCommand(context.Background(), api, testChatID, portal, newFakeCatalog(), session, bus)

	cmd.Run()
	simulateUserInput(cmd, []string{skipButton, anyCityButton, "1", applyButton, "1", "Tôi có kinh nghiệm"})

	assert.NotNil(published)
	assert.Equal(1, published.JobPostingID)
	assert.True(api.hasTextContaining("Ứng tuyển thành công"))
}

func Test_BrowseJobsCmd_WhenNotSignedIn_ShouldRefuseToApply(t *testing.T) {

	assert := assert.New(t)

	api := &mockApi{}
	portal := newBrowsePortal("")

	cmd := newBrowseJobsCommand(context.Background(), api, testChatID, portal, newFakeCatalog(),
		auth.NewSession(), EventBus.New())

	cmd.Run()
	simulateUserInput(cmd, []string{skipButton, anyCityButton, "1", applyButton})

	assert.Contains(api.lastText(), "Vui lòng đăng nhập")
	portal.AssertNotCalled(t, "GetMyResumes")
}

func onboardingPortal() *mockPortal {
	portal := &mockPortal{}
	portal.On("GetEmployerProfile").Return(models.EmployerProfile{}, apiError(http.StatusNotFound))
	return portal
}

func Test_OnboardingCmd_WhenCompleted_ShouldCreateProfileOnce(t *testing.T) {

	assert := assert.New(t)

	api := &mockApi{}
	drafts := newMemoryData()
	service := services.NewEmployerOnboarding(drafts, EventBus.New())
	portal := onboardingPortal()
	portal.On("CreateEmployerProfile", mock.MatchedBy(func(profile models.EmployerProfile) bool {
		return profile.CompanyName == "Quán Cà Phê A" &&
			profile.CityID == 1 &&
			profile.EmployeeCount == "1-10" &&
			len(profile.SocialLinks) == 1 &&
			profile.ContactPhone == "0912345678" &&
			profile.ContactEmail == "b@quana.vn"
	})).Return(models.EmployerProfile{ID: 5, CompanyName: "Quán Cà Phê A"}, nil)
	finished := false

	cmd, err := newOnboardingCommand(context.Background(), api, testChatID, service, portal, newFakeCatalog())
	assert.NoError(err)
	cmd.WithFinishCallback(func() { finished = true })

	cmd.Run()
	simulateUserInput(cmd, []string{"Quán Cà Phê A", "Quán cà phê", skipButton})
	simulateUserInput(cmd, []string{"12 Lê Lợi", "Hồ Chí Minh", "Quán cà phê nhỏ", "1-10"})
	simulateUserInput(cmd, []string{"Facebook", "https://facebook.com/quana", doneButton})
	simulateUserInput(cmd, []string{"Trần B", "123", "b@quana.vn", skipButton}) //invalid phone

	assert.Equal(onboarding.StepContactInfo, cmd.wizard.Step())
	assert.True(api.hasTextContaining("Vui lòng kiểm tra lại"))

	simulateUserInput(cmd, []string{keepButton, "0912345678", keepButton, skipButton})

	assert.True(cmd.wizard.Done())
	assert.Contains(api.lastText(), "Kiểm tra lại thông tin")
	assert.False(finished)

	cmd.OnUserInput(submitButton)

	assert.True(finished)
	portal.AssertNumberOfCalls(t, "CreateEmployerProfile", 1)
	assert.Empty(drafts.data)
}

func Test_OnboardingCmd_WhenBackPressed_ShouldKeepEnteredData(t *testing.T) {

	assert := assert.New(t)

	api := &mockApi{}
	service := services.NewEmployerOnboarding(newMemoryData(), EventBus.New())

	cmd, err := newOnboardingCommand(context.Background(), api, testChatID, service, onboardingPortal(), newFakeCatalog())
	assert.NoError(err)

	cmd.Run()
	simulateUserInput(cmd, []string{"Quán Cà Phê A", "Quán cà phê", skipButton})
	simulateUserInput(cmd, []string{"12 Lê Lợi", backButton, backButton})

	assert.Equal(onboarding.StepBusinessInfo, cmd.wizard.Step())
	assert.Equal("Quán Cà Phê A", cmd.draft.Business.CompanyName)
	assert.Contains(api.lastText(), "Quán Cà Phê A") //offered to keep

	simulateUserInput(cmd, []string{keepButton, keepButton, skipButton})

	assert.Equal(onboarding.StepEstablishmentInfo, cmd.wizard.Step())
	assert.Equal("12 Lê Lợi", cmd.draft.Establishment.Address)
}

func Test_OnboardingCmd_WhenRestarted_ShouldResumeFromDraft(t *testing.T) {

	assert := assert.New(t)

	drafts := newMemoryData()
	service := services.NewEmployerOnboarding(drafts, EventBus.New())

	cmd, err := newOnboardingCommand(context.Background(), &mockApi{}, testChatID, service, onboardingPortal(), newFakeCatalog())
	assert.NoError(err)
	cmd.Run()
	simulateUserInput(cmd, []string{"Quán Cà Phê A", "Quán cà phê", skipButton})

	resumed, err := newOnboardingCommand(context.Background(), &mockApi{}, testChatID, service, onboardingPortal(), newFakeCatalog())
	assert.NoError(err)

	assert.Equal(onboarding.StepEstablishmentInfo, resumed.wizard.Step())
	assert.Equal("Quán Cà Phê A", resumed.draft.Business.CompanyName)
}

func Test_OnboardingCmd_WhenProfileExists_ShouldFail(t *testing.T) {

	portal := &mockPortal{}
	portal.On("GetEmployerProfile").Return(models.EmployerProfile{ID: 5, CompanyName: "Quán Cà Phê A"}, nil)
	service := services.NewEmployerOnboarding(newMemoryData(), EventBus.New())

	_, err := newOnboardingCommand(context.Background(), &mockApi{}, testChatID, service, portal, newFakeCatalog())

	assert.Error(t, err)
	assert.Contains(t, errorText(err), "Quán Cà Phê A")
}

func Test_CreateJobCmd_WhenInvalidInput_ShouldWaitForValid(t *testing.T) {

	assert := assert.New(t)

	portal := &mockPortal{}
	portal.On("CreateJobPosting", models.JobPostingDraft{
		Title:        "Phục vụ bàn",
		HourlyRate:   25000,
		StartTime:    "08:00",
		EndTime:      "12:00",
		CityID:       1,
		JobTagID:     4,
		Requirements: "Nhanh nhẹn",
	}).Return(models.JobPosting{ID: 1, Title: "Phục vụ bàn", Status: models.JobStatusPending}, nil)
	finished := false

	cmd := newCreateJobCommand(context.Background(), &mockApi{}, testChatID, portal, newFakeCatalog())
	cmd.WithFinishCallback(func() { finished = true })

	cmd.Run()
	cmd.OnUserInput("Phục vụ bàn")
	simulateUserInput(cmd, []string{"abc", "25.000"})
	simulateUserInput(cmd, []string{"8h", "08:00"})
	cmd.OnUserInput("12:00")
	simulateUserInput(cmd, []string{"Đà Lạt", "Hồ Chí Minh"})
	simulateUserInput(cmd, []string{skipButton, "Phục vụ", "Nhanh nhẹn"})

	assert.True(finished)
	portal.AssertNumberOfCalls(t, "CreateJobPosting", 1)
}

func Test_BuyAdvertisementCmd_WhenNoProfile_ShouldFail(t *testing.T) {

	portal := &mockPortal{}
	portal.On("GetEmployerProfile").Return(models.EmployerProfile{}, apiError(http.StatusNotFound))

	_, err := newBuyAdvertisementCommand(context.Background(), &mockApi{}, testChatID, portal)

	assert.ErrorIs(t, err, errNoProfile)
}

func Test_BuyAdvertisementCmd_WhenValidData_ShouldUseProfileID(t *testing.T) {

	assert := assert.New(t)

	portal := &mockPortal{}
	portal.On("GetEmployerProfile").Return(models.EmployerProfile{ID: 9, UserID: 7}, nil)
	portal.On("GetAdvertisementPackages").Return([]models.AdvertisementPackage{
		{ID: 2, Name: "Top 7 ngày", Price: 150000, DurationDays: 7, Position: models.PositionTop},
	}, nil)
	portal.On("CreateAdvertisement", models.AdvertisementRequest{
		EmployerID:           9,
		PackageID:            2,
		Title:                "Tuyển gấp",
		Description:          "Cần 5 phục vụ",
		PaymentTransactionID: "TX123",
	}).Return(models.Advertisement{ID: 1, Title: "Tuyển gấp"}, nil)
	finished := false

	cmd, err := newBuyAdvertisementCommand(context.Background(), &mockApi{}, testChatID, portal)
	assert.NoError(err)
	cmd.WithFinishCallback(func() { finished = true })

	cmd.Run()
	simulateUserInput(cmd, []string{"3", "1", "Tuyển gấp", "Cần 5 phục vụ", "not a url", skipButton, "TX123"})

	assert.True(finished)
	portal.AssertNumberOfCalls(t, "CreateAdvertisement", 1)
}

func Test_ModerateCmd_WhenDecisionsMade_ShouldReloadQueue(t *testing.T) {

	assert := assert.New(t)

	first := models.JobPosting{ID: 11, Title: "Phục vụ", Status: models.JobStatusPending}
	second := models.JobPosting{ID: 12, Title: "Thu ngân", Status: models.JobStatusPending}

	portal := &mockPortal{}
	portal.On("GetPendingJobPostings").Return([]models.JobPosting{first, second}, nil).Once()
	portal.On("GetPendingJobPostings").Return([]models.JobPosting{second}, nil).Once()
	portal.On("GetPendingJobPostings").Return([]models.JobPosting{}, nil).Once()
	portal.On("ApproveJobPosting", first.ID).Return(nil)
	portal.On("RejectJobPosting", second.ID, "Thiếu mức lương").Return(nil)
	finished := false

	cmd, err := newModerateCommand(context.Background(), &mockApi{}, testChatID, portal)
	assert.NoError(err)
	cmd.WithFinishCallback(func() { finished = true })

	cmd.Run()
	simulateUserInput(cmd, []string{"1", approveButton})
	assert.False(finished)

	simulateUserInput(cmd, []string{"1", rejectButton, "Thiếu mức lương"})

	assert.True(finished)
	portal.AssertExpectations(t)
}

func Test_ModerateCmd_WhenQueueEmpty_ShouldFail(t *testing.T) {

	portal := &mockPortal{}
	portal.On("GetPendingJobPostings").Return([]models.JobPosting{}, nil)

	_, err := newModerateCommand(context.Background(), &mockApi{}, testChatID, portal)

	assert.ErrorIs(t, err, errNothingToModerate)
}
