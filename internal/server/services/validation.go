package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
)

const minPasswordLength = 6

// validate checks the struct tags of service inputs. Field names come from
// the json tags so errors name the fields the client sent.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// validateInput runs the tag rules on in and returns one
// *common.ValidationError per failing field, joined.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: validate: %v", common.ErrorInternal, err)
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, common.NewValidationError(fe.Field(), fieldMessage(fe)))
	}
	return errors.Join(errs...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank", "required":
		return fe.Field() + " is required"
	}

	switch fe.Field() {
	case "email":
		return "Please enter your valid email"
	case "password":
		return fmt.Sprintf("Please enter a password with %d or more", minPasswordLength)
	case "age":
		return "age must be a non-negative number"
	case "status":
		return "give your valid status"
	default:
		return fe.Field() + " is invalid"
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validID reports whether id can name a stored record. Anything else cannot
// match and is treated as not found without touching the store.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// storeError keeps not-found and validation outcomes and turns anything else
// into an internal error that carries the cause for logging.
func storeError(op string, err error) error {
	switch common.KindOf(err) {
	case common.KindNotFound:
		return common.ErrorNotFound
	case common.KindValidation:
		return err
	default:
		return fmt.Errorf("%w: %s: %v", common.ErrorInternal, op, err)
	}
}
