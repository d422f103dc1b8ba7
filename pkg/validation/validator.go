package validation

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Domain-specific tags used by request structs
	_ = validate.RegisterValidation("vehicle_category", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "economy", "sedan", "suv", "premium":
			return true
		}
		return false
	})

	_ = validate.RegisterValidation("trip_status", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "pending", "accepted", "confirmed", "in_progress", "completed", "cancelled":
			return true
		}
		return false
	})

	_ = validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "rider", "driver", "admin":
			return true
		}
		return false
	})
}

// ValidateStruct validates a struct using its validation tags
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			return NewValidationError(errs)
		}
		return err
	}
	return nil
}
