package validation

import (
	"regexp"
	"strings"

	"car-rental/pkg/constants"

	"github.com/go-playground/validator/v10"
)

var (
	// Spanish plates (1234BCD) and the older provincial format (M1234AB).
	plateRe = regexp.MustCompile(`^(\d{4}[BCDFGHJKLMNPRSTVWXYZ]{3}|[A-Z]{1,2}\d{4}[A-Z]{0,2})$`)
	phoneRe = regexp.MustCompile(`^\+?\d{9,15}$`)
)

func registerRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"plate":        isPlate,
		"transmission": isTransmission,
		"role":         isRole,
		"phone":        isPhone,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// NormalizePlate uppercases and strips spaces and dashes.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.NewReplacer(" ", "", "-", "").Replace(plate))
}

func isPlate(fl validator.FieldLevel) bool {
	return plateRe.MatchString(NormalizePlate(fl.Field().String()))
}

func isTransmission(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case constants.TransmissionManual, constants.TransmissionAutomatic:
		return true
	}
	return false
}

func isRole(fl validator.FieldLevel) bool {
	return constants.Role(fl.Field().String()).Valid()
}

func isPhone(fl validator.FieldLevel) bool {
	phone := strings.NewReplacer(" ", "", "-", "").Replace(fl.Field().String())
	return phoneRe.MatchString(phone)
}
