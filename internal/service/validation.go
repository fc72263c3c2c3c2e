package service

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"

	"github.com/noah-isme/sma-console/internal/dto"
	"github.com/noah-isme/sma-console/internal/models"
)

var (
	personNameRegex = regexp.MustCompile(`^[\p{Latin} ]+$`)
	phoneRegex      = regexp.MustCompile(`^9\d{8}$`)
	emailRegex      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitsRegex     = regexp.MustCompile(`^\d+$`)
	studentRefRegex = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)
	yearRegex       = regexp.MustCompile(`^\d{4}$`)
	periodRegex     = regexp.MustCompile(`^\d{4}-[12]$`)
)

// Custom validation tags and their Spanish messages. {0} is the field label.
var customMessages = map[string]string{
	"required":   "{0} es obligatorio",
	"number":     "{0} debe ser numérico",
	"personname": "{0} solo puede contener letras y espacios",
	"phone":      "{0} debe tener 9 dígitos y empezar con 9",
	"basicemail": "{0} no es un correo válido",
	"isodate":    "{0} debe ser una fecha válida",
	"notfuture":  "{0} no puede ser una fecha futura",
	"maxage":     "{0} implica una edad mayor a {1} años",
	"studentref": "{0} solo puede contener letras, números y guiones",
	"year":       "{0} debe tener 4 dígitos",
	"period":     "{0} debe tener el formato AAAA-1 o AAAA-2",
	"docdigits":  "{0} solo puede contener dígitos",
	"docdni":     "{0} debe tener exactamente 8 dígitos",
	"doclength":  "{0} debe tener entre 8 y 12 dígitos",
}

// ValidationError maps form field names to a field-level message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldErrors extracts the field map of a *ValidationError, if err is one.
func FieldErrors(err error) map[string]string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}

// FormValidator validates form inputs and renders Spanish messages.
type FormValidator struct {
	validate   *validator.Validate
	translator ut.Translator
	now        func() time.Time
}

// NewFormValidator builds a validator bound to the given clock. A nil clock uses time.Now.
func NewFormValidator(now func() time.Time) *FormValidator {
	if now == nil {
		now = time.Now
	}
	locale := es.New()
	uni := ut.New(locale, locale)
	translator, _ := uni.GetTranslator("es")

	v := &FormValidator{validate: validator.New(), translator: translator, now: now}
	_ = es_translations.RegisterDefaultTranslations(v.validate, translator)

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})

	_ = v.validate.RegisterValidation("personname", matches(personNameRegex))
	_ = v.validate.RegisterValidation("phone", matches(phoneRegex))
	_ = v.validate.RegisterValidation("basicemail", matches(emailRegex))
	_ = v.validate.RegisterValidation("studentref", matches(studentRefRegex))
	_ = v.validate.RegisterValidation("year", matches(yearRegex))
	_ = v.validate.RegisterValidation("period", matches(periodRegex))
	_ = v.validate.RegisterValidation("isodate", isoDate)
	_ = v.validate.RegisterValidation("notfuture", v.notFuture)
	_ = v.validate.RegisterValidation("maxage", v.maxAge)
	v.validate.RegisterStructValidation(documentNumberValidation, dto.StudentInput{})

	for tag, text := range customMessages {
		registerTranslation(v.validate, translator, tag, text)
	}
	return v
}

// Struct validates input and returns a *ValidationError keyed by form field name.
func (v *FormValidator) Struct(input interface{}) error {
	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	t := reflect.TypeOf(input)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := fe.StructField()
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if form := sf.Tag.Get("form"); form != "" {
				name = form
			}
		}
		if _, exists := fields[name]; !exists {
			fields[name] = fe.Translate(v.translator)
		}
	}
	return &ValidationError{Fields: fields}
}

// ValidDocumentNumber reports whether number is acceptable for the document type.
func ValidDocumentNumber(docType models.DocumentType, number string) bool {
	return documentNumberTag(docType, number) == ""
}

// ValidPhone reports whether phone has 9 digits starting with 9.
func ValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

func documentNumberTag(docType models.DocumentType, number string) string {
	if !digitsRegex.MatchString(number) {
		return "docdigits"
	}
	if docType == models.DocumentDNI {
		if len(number) != 8 {
			return "docdni"
		}
		return ""
	}
	if len(number) < 8 || len(number) > 12 {
		return "doclength"
	}
	return ""
}

func documentNumberValidation(sl validator.StructLevel) {
	input := sl.Current().Interface().(dto.StudentInput)
	if input.DocumentNumber == "" {
		return
	}
	if tag := documentNumberTag(models.DocumentType(input.DocumentType), input.DocumentNumber); tag != "" {
		sl.ReportError(input.DocumentNumber, "Número de documento", "DocumentNumber", tag, "")
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func isoDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(models.DateLayout, fl.Field().String())
	return err == nil
}

// notFuture passes unparseable values through; isodate reports those.
func (v *FormValidator) notFuture(fl validator.FieldLevel) bool {
	day, err := time.Parse(models.DateLayout, fl.Field().String())
	if err != nil {
		return true
	}
	return !day.After(today(v.now()))
}

func (v *FormValidator) maxAge(fl validator.FieldLevel) bool {
	birth, err := time.Parse(models.DateLayout, fl.Field().String())
	if err != nil {
		return true
	}
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return models.AgeAt(birth, today(v.now())) <= limit
}

func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field(), fe.Param())
			return s
		},
	)
}
