package menu

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/model"
)

// Form field names.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldImage       = "image"
	FieldCategory    = "category"
)

// Draft is a menu item being edited. Price holds the text as typed.
type Draft struct {
	ID          string   `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Price       string   `json:"price" yaml:"price"`
	Image       string   `json:"image" yaml:"image"`
	Category    string   `json:"category" yaml:"category"`
	Ingredients []string `json:"ingredients" yaml:"ingredients"`
	Available   bool     `json:"available" yaml:"available"`
}

// DraftFrom copies a stored item into an editable draft.
func DraftFrom(item *model.MenuItem) Draft {
	return Draft{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price.StringFixed(2),
		Image:       item.Image,
		Category:    string(item.Category),
		Ingredients: append([]string(nil), item.Ingredients...),
		Available:   item.Available,
	}
}

// FieldErrors maps a field name to its message.
type FieldErrors map[string]string

// Writer persists menu items.
type Writer interface {
	Create(ctx context.Context, item *model.MenuItem) error
	Update(ctx context.Context, item *model.MenuItem) error
}

// Form is the create/update editor of one menu item. It is not safe for
// concurrent use.
type Form struct {
	draft  Draft
	errors FieldErrors
	closed bool
}

// NewForm starts editing draft. A draft with an id updates that item.
func NewForm(draft Draft) *Form {
	draft.Ingredients = append([]string(nil), draft.Ingredients...)
	return &Form{draft: draft, errors: FieldErrors{}}
}

// Draft returns a copy of the current draft.
func (f *Form) Draft() Draft {
	d := f.draft
	d.Ingredients = append([]string(nil), f.draft.Ingredients...)
	return d
}

// Errors returns a copy of the current field errors.
func (f *Form) Errors() FieldErrors {
	out := make(FieldErrors, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Closed reports whether the form was submitted successfully.
func (f *Form) Closed() bool {
	return f.closed
}

// Set edits one field and clears that field's error only.
func (f *Form) Set(field, value string) error {
	switch field {
	case FieldName:
		f.draft.Name = value
	case FieldDescription:
		f.draft.Description = value
	case FieldPrice:
		f.draft.Price = value
	case FieldImage:
		f.draft.Image = value
	case FieldCategory:
		f.draft.Category = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	delete(f.errors, field)
	return nil
}

// AddIngredient appends trimmed text. Blank text is ignored.
func (f *Form) AddIngredient(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	f.draft.Ingredients = append(f.draft.Ingredients, text)
	return true
}

// RemoveIngredient removes the ingredient at index.
func (f *Form) RemoveIngredient(index int) bool {
	if index < 0 || index >= len(f.draft.Ingredients) {
		return false
	}
	f.draft.Ingredients = append(f.draft.Ingredients[:index], f.draft.Ingredients[index+1:]...)
	return true
}

// Validate checks every field, replaces the form errors with the result and
// returns the item the draft describes when there are none.
func (f *Form) Validate() (*model.MenuItem, FieldErrors) {
	errs := FieldErrors{}
	d := f.draft

	name := strings.TrimSpace(d.Name)
	if name == "" {
		errs[FieldName] = "name is required"
	}
	description := strings.TrimSpace(d.Description)
	if description == "" {
		errs[FieldDescription] = "description is required"
	}

	price, err := ParsePrice(d.Price)
	switch {
	case strings.TrimSpace(d.Price) == "":
		errs[FieldPrice] = "price is required"
	case err != nil:
		errs[FieldPrice] = err.Error()
	case !price.IsPositive():
		errs[FieldPrice] = "price must be greater than zero"
	}

	image := strings.TrimSpace(d.Image)
	if image == "" {
		errs[FieldImage] = "image URL is required"
	} else if u, err := url.Parse(image); err != nil || u.Scheme == "" || u.Host == "" {
		errs[FieldImage] = "image must be an absolute URL"
	}

	category := model.Category(strings.TrimSpace(d.Category))
	if !category.Valid() {
		errs[FieldCategory] = "choose one of the menu categories"
	}

	f.errors = errs
	if len(errs) > 0 {
		return nil, errs
	}

	return &model.MenuItem{
		ID:          d.ID,
		Name:        name,
		Description: description,
		Price:       price,
		Image:       image,
		Category:    category,
		Ingredients: append([]string{}, d.Ingredients...),
		Available:   d.Available,
	}, nil
}

// Submit validates the draft and writes it. On any failure the draft is
// left as it was so the user can correct it and try again.
func (f *Form) Submit(ctx context.Context, w Writer) (*model.MenuItem, error) {
	item, errs := f.Validate()
	if errs != nil {
		return nil, &apperrors.ValidationError{Fields: errs}
	}

	var err error
	if item.ID != "" {
		err = w.Update(ctx, item)
	} else {
		err = w.Create(ctx, item)
	}
	if err != nil {
		return nil, err
	}

	f.draft.ID = item.ID
	f.closed = true
	return item, nil
}
