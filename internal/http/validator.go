package http

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var genrePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9 \-]*$`)

func init() {
	validate = validator.New()

	validate.RegisterValidation("genre", validateGenre)
}

// Genres are lowercase display strings ("fantasy", "young adult");
// they are matched verbatim against pending-shelf notes, so leading
// capitals or stray whitespace would silently break shelf filtering.
func validateGenre(fl validator.FieldLevel) bool {
	return genrePattern.MatchString(fl.Field().String())
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func ValidateStruct(s interface{}) []ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var errors []ValidationError
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		tag := err.Tag()
		param := err.Param()

		var message string
		switch tag {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", field, param)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, param)
		case "url", "uri":
			message = fmt.Sprintf("%s must be a valid URL", field)
		case "genre":
			message = fmt.Sprintf("%s must be a lowercase genre name", field)
		case "gte", "lte":
			message = fmt.Sprintf("%s must be between %s", field, param)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		fieldName := strings.ToLower(field[:1]) + field[1:]
		errors = append(errors, ValidationError{
			Field:   fieldName,
			Message: message,
		})
	}

	return errors
}
