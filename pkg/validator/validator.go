package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/betavietvn/leadtrack/pkg/response"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// Canonical Vietnamese mobile rule: +84 or 0, then a valid carrier prefix
// digit (3, 5, 7, 8, 9), then eight digits. The laxer 0\d{9} variant that
// circulated in some call sites is intentionally not merged in.
var vnPhoneRegex = regexp.MustCompile(`^(\+84|0)[35789]\d{8}$`)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var disposableDomains = []string{
	"tempmail",
	"temp-mail",
	"fakeinbox",
	"mailinator",
	"guerrillamail",
	"yopmail",
}

func init() {
	validate = validator.New()

	validate.RegisterValidation("vnphone", validateVNPhone)
}

// Validate runs struct-tag validation and converts failures into
// field/message pairs suitable for user-visible responses.
func Validate(data interface{}) []response.ValidationError {
	var validationErrors []response.ValidationError

	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, response.ValidationError{
				Field:   err.Field(),
				Message: getErrorMessage(err),
			})
		}
	}

	return validationErrors
}

func validateVNPhone(fl validator.FieldLevel) bool {
	return IsVietnamesePhone(fl.Field().String())
}

// IsVietnamesePhone reports whether the value is a well-formed Vietnamese
// mobile number. Whitespace is ignored.
func IsVietnamesePhone(phone string) bool {
	return vnPhoneRegex.MatchString(strings.ReplaceAll(phone, " ", ""))
}

// IsEmail reports whether the value has a plausible email shape.
func IsEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsDisposableEmailDomain reports whether the address uses a known throwaway
// mail provider.
func IsDisposableEmailDomain(email string) bool {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) != 2 {
		return false
	}
	domain := strings.ToLower(parts[1])
	for _, d := range disposableDomains {
		if strings.Contains(domain, d) {
			return true
		}
	}
	return false
}

func getErrorMessage(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "vnphone":
		return fmt.Sprintf("%s must be a valid Vietnamese phone number", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, err.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
