// Package forms declares the HTML forms, their field constraints and the
// messages shown next to a field that fails them.
package forms

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field name to its first failing message.
type Errors map[string]string

// Has reports whether field failed validation.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Get returns the message for field, or "".
func (e Errors) Get(field string) string {
	return e[field]
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

const requiredMessage = "This field is required."

// fieldMessages overrides the default text for a field and rule.
var fieldMessages = map[string]string{
	"email.min":        "Little short for an email address?",
	"email.email":      "That's an invalid email address.",
	"password.min":     "Field must be at least 8 characters long.",
	"password.max":     "Field must be at least 8 characters long.",
	"img_url.http_url": "Invalid URL.",
}

func message(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return requiredMessage
	case "url", "http_url":
		return "Invalid URL."
	case "email":
		return "Invalid email address."
	default:
		return "Invalid value."
	}
}

// check runs the struct tags on form and converts failures to Errors.
// A nil result means the form is valid.
func check(form interface{}) Errors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"": err.Error()}
	}
	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}
	return out
}

// RegisterForm is the sign-up form.
type RegisterForm struct {
	Email    string `form:"email" validate:"required,min=6,email"`
	Password string `form:"password" validate:"required,min=8,max=120"`
	Name     string `form:"name" validate:"required"`
}

// Validate trims the input and checks every field.
func (f *RegisterForm) Validate() Errors {
	f.Email = strings.TrimSpace(f.Email)
	f.Name = strings.TrimSpace(f.Name)
	return check(f)
}

// LoginForm is the sign-in form. It shares the registration constraints.
type LoginForm struct {
	Email    string `form:"email" validate:"required,min=6,email"`
	Password string `form:"password" validate:"required,min=8,max=120"`
}

func (f *LoginForm) Validate() Errors {
	f.Email = strings.TrimSpace(f.Email)
	return check(f)
}

// PostForm creates and edits posts. Author is shown on the form but the
// post is always attributed to the signed-in user.
type PostForm struct {
	Title    string `form:"title" validate:"required"`
	Subtitle string `form:"subtitle" validate:"required"`
	Author   string `form:"author" validate:"required"`
	ImgURL   string `form:"img_url" validate:"required,http_url"`
	Body     string `form:"body" validate:"required"`
}

func (f *PostForm) Validate() Errors {
	f.Title = strings.TrimSpace(f.Title)
	f.Subtitle = strings.TrimSpace(f.Subtitle)
	f.Author = strings.TrimSpace(f.Author)
	f.ImgURL = strings.TrimSpace(f.ImgURL)
	if strings.TrimSpace(f.Body) == "" {
		f.Body = ""
	}
	return check(f)
}

// CommentForm is the reply box under a post.
type CommentForm struct {
	CommentText string `form:"comment_text" validate:"required"`
}

func (f *CommentForm) Validate() Errors {
	if strings.TrimSpace(f.CommentText) == "" {
		f.CommentText = ""
	}
	return check(f)
}
