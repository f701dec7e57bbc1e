// Package validation declares the shape of the forum's submitted forms and
// flattens validator failures into per-field message lists.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormKey is the error bucket for failures not tied to a single field.
const FormKey = "_form"

// FieldErrors maps a form field name to its error messages.
type FieldErrors map[string][]string

var slugPattern = regexp.MustCompile(`^[a-z-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// fieldName is the submitted name of f, taken from its form tag.
func fieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// TopicForm is submitted to create a topic. Name becomes the topic slug.
type TopicForm struct {
	Name        string `form:"name" json:"name" validate:"min=3,slug"`
	Description string `form:"description" json:"description" validate:"min=10"`
}

// PostForm is submitted to create a post within a topic.
type PostForm struct {
	Title   string `form:"title" json:"title" validate:"min=3"`
	Content string `form:"content" json:"content" validate:"min=10"`
}

// CommentForm is submitted to comment on a post or reply to a comment.
type CommentForm struct {
	Content string `form:"content" json:"content" validate:"min=3"`
}

// Validate checks form against its validate tags. Every rule of a field is
// checked on its own so a field reports all of its failures, in tag order.
// It returns nil when the form is valid.
func Validate(form any) FieldErrors {
	v := reflect.Indirect(reflect.ValueOf(form))
	if v.Kind() != reflect.Struct {
		return FieldErrors{FormKey: {fmt.Sprintf("unsupported form type %T", form)}}
	}

	var out FieldErrors
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		rules := f.Tag.Get("validate")
		if rules == "" || rules == "-" {
			continue
		}
		name := fieldName(f)
		for _, rule := range strings.Split(rules, ",") {
			err := validate.Var(v.Field(i).Interface(), rule)
			if err == nil {
				continue
			}
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return FieldErrors{FormKey: {err.Error()}}
			}
			if out == nil {
				out = FieldErrors{}
			}
			for _, fe := range verrs {
				out[name] = append(out[name], message(name, fe))
			}
		}
	}
	return out
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("String must contain at least %s character(s)", fe.Param())
	case "slug":
		return "Must be lower case letters or dashes without spaces"
	default:
		return fmt.Sprintf("Invalid %s", field)
	}
}
