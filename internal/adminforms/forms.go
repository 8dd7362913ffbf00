// Package adminforms backs the admin console's course and quiz editors:
// field validation, banner upload gating, slug derivation, and payload
// assembly for the API client.
package adminforms

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
)

// MaxBannerBytes is the ceiling on banner image uploads.
const MaxBannerBytes = 5 << 20 // 5 MB

var validate = validator.New(validator.WithRequiredStructEnabled())

// Mode distinguishes create from edit; slug auto-derivation only runs in
// create mode.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Banner is a validated banner attachment.
type Banner struct {
	Name    string
	MIME    string
	Content []byte
}

// CheckBanner gates a file before it is accepted into a form: image MIME
// prefix and the size ceiling.
func CheckBanner(name, mime string, content []byte) (*Banner, error) {
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("banner must be an image, got %s", mime)
	}
	if len(content) > MaxBannerBytes {
		return nil, fmt.Errorf("banner exceeds %d MB limit", MaxBannerBytes>>20)
	}
	return &Banner{Name: name, MIME: mime, Content: content}, nil
}

// fieldErrors flattens validator output into a field→message map matching
// the server's error envelope, so local and remote errors merge cleanly.
func fieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_form": err.Error()}
	}
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = "this field is required"
		case "gte", "min":
			out[field] = "must not be negative"
		default:
			out[field] = "invalid value"
		}
	}
	return out
}

// CourseForm is the admin course editor's state.
type CourseForm struct {
	mode Mode

	ID          int64
	Title       string `validate:"required"`
	Slug        string `validate:"required"`
	Description string

	Banner *Banner
}

func NewCourseForm() *CourseForm {
	return &CourseForm{mode: ModeCreate}
}

func EditCourseForm(id int64, title, slugValue, description string) *CourseForm {
	return &CourseForm{mode: ModeEdit, ID: id, Title: title, Slug: slugValue, Description: description}
}

// SetTitle updates the title. In create mode the slug regenerates on every
// title change, including over a manually edited slug; edit mode never
// touches the slug.
func (f *CourseForm) SetTitle(title string) {
	f.Title = title
	if f.mode == ModeCreate {
		f.Slug = slug.Make(title)
	}
}

// SetSlug sets the slug directly. In create mode the next SetTitle will
// overwrite it again.
func (f *CourseForm) SetSlug(value string) {
	f.Slug = value
}

// AttachBanner validates and stores a banner file.
func (f *CourseForm) AttachBanner(name, mime string, content []byte) error {
	banner, err := CheckBanner(name, mime, content)
	if err != nil {
		return err
	}
	f.Banner = banner
	return nil
}

// Validate returns field errors; empty means the form may submit.
func (f *CourseForm) Validate() map[string]string {
	return fieldErrors(validate.Struct(f))
}

// Fields returns the scalar payload fields.
func (f *CourseForm) Fields() map[string]string {
	return map[string]string{
		"title":       f.Title,
		"slug":        f.Slug,
		"description": f.Description,
	}
}
