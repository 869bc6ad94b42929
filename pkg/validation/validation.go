// Package validation wraps go-playground/validator for struct and single-value checks.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator обертка над go-playground/validator
type Validator struct {
	v *validator.Validate
}

// New создает валидатор с использованием json-имен полей в сообщениях
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Struct валидирует структуру по тегам `validate`
// Возвращает ошибку с перечислением невалидных полей
func (val *Validator) Struct(s interface{}) error {
	if err := val.v.Struct(s); err != nil {
		return humanize(err)
	}
	return nil
}

// Var валидирует одно значение по тегу
func (val *Validator) Var(field interface{}, tag string) error {
	if err := val.v.Var(field, tag); err != nil {
		return humanize(err)
	}
	return nil
}

// HTTPURL проверяет, что строка - абсолютный http(s) URL
func (val *Validator) HTTPURL(raw string) error {
	return val.Var(raw, "required,http_url")
}

func humanize(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if field == "" {
			field = "value"
		}
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(parts, "; "))
}
