package bot

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/vieclam/jobportal/internal/clients/jobportal"
	"github.com/vieclam/jobportal/internal/domain/models"
)

const buyAdvertisementCommandName = "Mua quảng cáo"

type advertisementAPI interface {
	GetEmployerProfile(ctx context.Context) (models.EmployerProfile, error)
	GetAdvertisementPackages(ctx context.Context) ([]models.AdvertisementPackage, error)
	CreateAdvertisement(ctx context.Context, request models.AdvertisementRequest) (models.Advertisement, error)
}

type buyAdvertisementCommand struct {
	*formCommand
	portal   advertisementAPI
	packages []models.AdvertisementPackage
	request  models.AdvertisementRequest
}

func newBuyAdvertisementCommand(ctx context.Context, api apiInterface, chatID int64,
	portal advertisementAPI) (*buyAdvertisementCommand, error) {

	profile, err := portal.GetEmployerProfile(ctx)
	if jobportal.IsNotFound(err) {
		return nil, errNoProfile
	}
	if err != nil {
		return nil, err
	}

	packages, err := portal.GetAdvertisementPackages(ctx)
	if err != nil {
		return nil, err
	}
	if len(packages) == 0 {
		return nil, errors.New("no advertisement packages available")
	}

	cmd := &buyAdvertisementCommand{
		formCommand: newFormCommand(ctx, api, chatID, "buy_advertisement"),
		portal:      portal,
		packages:    packages,
		request:     models.AdvertisementRequest{EmployerID: profile.ID},
	}

	pkg := newItemInput(chatID, "Chọn gói quảng cáo:", packages, packageText, func(p models.AdvertisementPackage) {
		cmd.request.PackageID = p.ID
		cmd.next()
	})

	title := newTextInput(chatID, "Tiêu đề quảng cáo:", func(input string) {
		cmd.request.Title = input
		cmd.next()
	})
	title.AddValidation(maxLengthValidation(100, "Tiêu đề không được quá 100 ký tự."))

	description := newTextInput(chatID, "Nội dung quảng cáo:", func(input string) {
		cmd.request.Description = input
		cmd.next()
	})

	image := newOptionalTextInput(chatID, "Đường dẫn hình ảnh (URL):", func(input string) {
		cmd.request.ImageURL = input
		cmd.next()
	})
	image.AddValidation(validation{
		function:     func(input string) bool { return validate.Var(input, "url") == nil },
		errorMessage: "Đường dẫn không hợp lệ, vui lòng nhập lại.",
	})

	payment := newTextInput(chatID, "Sau khi thanh toán, nhập mã giao dịch:", func(input string) {
		cmd.request.PaymentTransactionID = input
		cmd.next()
	})

	cmd.inputHandlers = []inputHandler{pkg, title, description, image, payment}
	cmd.onComplete = cmd.create
	return cmd, nil
}

func (c *buyAdvertisementCommand) create() {

	ad, err := c.portal.CreateAdvertisement(c.ctx, c.request)
	if jobportal.IsBadRequest(err) {
		c.retryFrom(len(c.inputHandlers)-1, errorText(err))
		return
	}
	if err != nil {
		c.fail(err)
		return
	}

	text := "Đăng ký quảng cáo «" + ad.Title + "» thành công!"
	if !ad.EndDate.IsZero() {
		text += "\nHiển thị đến ngày " + ad.EndDate.Format("02/01/2006") + "."
	}
	c.finish(text)
}

func packageText(p models.AdvertisementPackage) string {
	return fmt.Sprintf("%s · %s VNĐ · %d ngày · %s", p.Name, models.FormatAmount(p.Price), p.DurationDays, p.Position)
}

