package validator

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/gonotif/internal/pkg/strcase"
)

var ErrTranslatorNotFound = errors.New("validator: english translator not found")

// Validator checks a struct against its `validate` tags.
type Validator interface {
	Validate(data any) error
}

// V10ValidationError maps snake_case field names to readable messages.
type V10ValidationError map[string]string

func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}
	b, _ := json.Marshal(map[string]string(vs)) //nolint:errcheck // string map always marshals
	return string(b)
}

func (vs V10ValidationError) Values() map[string]string { return vs }

// customRule is a tag outside the v10 defaults together with its message.
// {0} is replaced by the field name.
type customRule struct {
	tag string
	fn  validator.Func
	msg string
}

var customRules = []customRule{
	{tag: "notblank", fn: validators.NotBlank, msg: "{0} must not be blank"},
}

type V10Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func NewV10Validator() (*V10Validator, error) {
	lang := en.New()
	trans, ok := ut.New(lang, lang).GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, err
	}
	for _, rule := range customRules {
		if err := register(v, trans, rule); err != nil {
			return nil, err
		}
	}

	return &V10Validator{validate: v, trans: trans}, nil
}

func register(v *validator.Validate, trans ut.Translator, rule customRule) error {
	if err := v.RegisterValidation(rule.tag, rule.fn); err != nil {
		return err
	}
	return v.RegisterTranslation(rule.tag, trans,
		func(t ut.Translator) error { return t.Add(rule.tag, rule.msg, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(fe.Tag(), fe.Field())
			if err != nil {
				slog.Warn("failed to translate validation error", "tag", fe.Tag(), "error", err)
				return fe.Error()
			}
			return msg
		},
	)
}

// Validate returns nil, a V10ValidationError, or the validator's own error
// when data is not a struct.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(V10ValidationError, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[strcase.ToLowerSnake(fe.Field())] = fe.Translate(v.trans)
	}
	return out
}
