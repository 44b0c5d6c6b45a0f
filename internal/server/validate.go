package server

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

const (
	timeRangeTag = "time_range"
	weekdayTag   = "weekday"
)

// formValidator implements echo.Validator with english messages keyed by json field names.
type formValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newFormValidator() *formValidator {
	v := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterStructValidation(formStructValidation, schedule.FormData{})

	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{timeRangeTag, weekdayTag} {
		_ = v.RegisterTranslation(tag, trans, registerFn, translateCustom)
	}

	return &formValidator{validate: v, translator: trans}
}

// Validate implements echo.Validator.
func (fv *formValidator) Validate(i any) error {
	return fv.validate.Struct(i)
}

// fieldErrors flattens validation errors into json field -> message.
func (fv *formValidator) fieldErrors(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[e.Field()] = e.Translate(fv.translator)
	}
	return out
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case timeRangeTag:
		return "end_time must be after start_time"
	case weekdayTag:
		return "day must be Monday through Sunday"
	default:
		return ""
	}
}

// formStructValidation checks what single field tags cannot.
func formStructValidation(sl validator.StructLevel) {
	f, ok := sl.Current().Interface().(schedule.FormData)
	if !ok {
		return
	}
	if !f.Day.Valid() {
		sl.ReportError(f.Day, "day", "Day", weekdayTag, "")
	}
	if f.End <= f.Start {
		sl.ReportError(f.End, "end_time", "End", timeRangeTag, "")
	}
}
