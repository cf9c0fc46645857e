package handlers

import (
	"ProjectDesk/internal/apperr"
	"ProjectDesk/internal/model"
	"ProjectDesk/internal/reldate"
	"ProjectDesk/internal/service"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// newValidator — валидатор DTO с тегами предметной области:
// notblank, day (YYYY-MM-DD), dateexpr (день или выражение от T0), hhmm.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// в сообщениях используем имена полей из json
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// Nullable проверяется по значению; отсутствующее поле и null пропускаются omitempty
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		n, ok := f.Interface().(model.Nullable[string])
		if !ok || !n.HasValue() {
			return nil
		}
		return n.Value
	}, model.Nullable[string]{})

	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("day", func(fl validator.FieldLevel) bool {
		return reldate.IsDay(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("dateexpr", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		return s == "" || reldate.IsDay(s) || reldate.IsRelative(s)
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return service.TimeRe.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	return v
}

// validationError переводит ошибки валидатора в одно сообщение для клиента.
func validationError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return apperr.Validation("Dati non validi: %v", err)
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, fe.Field()+": "+describe(fe))
	}
	return apperr.Validation("%s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obbligatorio"
	case "notblank":
		return "non può essere vuoto"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("massimo %s caratteri", fe.Param())
		}
		return "deve essere <= " + fe.Param()
	case "min":
		return "deve essere >= " + fe.Param()
	case "oneof":
		return "valore non valido (ammessi: " + strings.ReplaceAll(fe.Param(), " ", ", ") + ")"
	case "day":
		return "data non valida (YYYY-MM-DD)"
	case "dateexpr":
		return "usa YYYY-MM-DD oppure T0, T0+N giorni/settimane/mesi/anni"
	case "hhmm":
		return "orario non valido (HH:MM)"
	case "url":
		return "URL non valido"
	default:
		return "valore non valido"
	}
}
