package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/atinyakov/AccountKeeper/internal/models"
)

// Messages written into an account's error map.
const (
	MsgLoginRequired    = "Логин обязателен"
	MsgPasswordRequired = "Пароль обязателен для локальной записи"
	MsgTooLong          = "Максимум 100 символов"
)

// MaxFieldLength is the longest login or password accepted, in characters.
const MaxFieldLength = 100

var (
	loginRules    = "notblank,max=" + strconv.Itoa(MaxFieldLength)
	passwordRules = "required,max=" + strconv.Itoa(MaxFieldLength)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// notblank rejects strings that are empty once surrounding whitespace is trimmed.
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks the login and password rules of a and stores the outcome in
// a.Errors, replacing whatever a previous call left there. Both rules run
// independently. It reports whether a is free of errors.
func Validate(a *models.Account) bool {
	errs := models.FieldErrors{}

	errs.Login = fieldMessage(validate.Var(a.Login, loginRules), MsgLoginRequired)

	if a.Type == models.TypeLocal {
		var pw string
		if a.Password != nil {
			pw = *a.Password
		}
		errs.Password = fieldMessage(validate.Var(pw, passwordRules), MsgPasswordRequired)
	}

	a.Errors = &errs
	return errs.Empty()
}

// fieldMessage maps the first failed rule of a field to its message.
func fieldMessage(err error, required string) string {
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return required
	}
	switch verrs[0].Tag() {
	case "max":
		return MsgTooLong
	default:
		return required
	}
}
