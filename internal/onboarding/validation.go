package onboarding

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var vnPhoneRegexp = regexp.MustCompile(`^(0|\+84)(3|5|7|8|9)\d{8}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("vnphone", func(fl validator.FieldLevel) bool {
		phone := strings.NewReplacer(" ", "", ".", "", "-", "").Replace(fl.Field().String())
		return vnPhoneRegexp.MatchString(phone)
	})
	return v
}

// FieldError is a field-local validation failure ready to show to the user.
type FieldError struct {
	Field   string
	Message string
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		messages = append(messages, field.Message)
	}
	return strings.Join(messages, "; ")
}

func validateSection(section any) error {
	if section == nil {
		return nil
	}
	err := validate.Struct(section)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	result := &ValidationError{}
	for _, fieldErr := range validationErrors {
		result.Fields = append(result.Fields, FieldError{
			Field:   fieldErr.Field(),
			Message: describe(fieldErr),
		})
	}
	return result
}

var fieldLabels = map[string]string{
	"CompanyName":   "Tên doanh nghiệp",
	"BusinessType":  "Loại hình kinh doanh",
	"TaxCode":       "Mã số thuế",
	"Address":       "Địa chỉ",
	"CityID":        "Thành phố",
	"Description":   "Mô tả",
	"EmployeeCount": "Quy mô nhân sự",
	"Links":         "Liên kết mạng xã hội",
	"Platform":      "Nền tảng",
	"URL":           "Đường dẫn",
	"Name":          "Người liên hệ",
	"Phone":         "Số điện thoại",
	"Email":         "Email",
}

func describe(fieldErr validator.FieldError) string {
	label, ok := fieldLabels[fieldErr.Field()]
	if !ok {
		label = fieldErr.Field()
	}

	switch fieldErr.Tag() {
	case "required", "gt":
		return label + " không được để trống"
	case "email":
		return "Email không hợp lệ"
	case "url":
		return "Đường dẫn không hợp lệ"
	case "vnphone":
		return "Số điện thoại không hợp lệ"
	case "numeric":
		return label + " chỉ được chứa chữ số"
	case "oneof":
		return label + " phải là một trong: " + fieldErr.Param()
	case "max":
		return label + " quá dài"
	case "min":
		return label + " quá ngắn"
	default:
		return label + " không hợp lệ"
	}
}
