package models

import (
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/artha/internal/apperr"
)

// Schema limits shared by every item kind.
const (
	MaxTitleLength   = 200
	MaxContentLength = 10000
	MaxTagCount      = 50
	MaxTagLength     = 50
)

func toStrings(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func baseRules(b *BaseItem) []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(&b.ID, validation.Required),
		validation.Field(&b.Title, validation.Required, validation.Length(1, MaxTitleLength)),
		validation.Field(&b.Content, validation.Length(0, MaxContentLength)),
		validation.Field(&b.Tags, validation.Length(0, MaxTagCount),
			validation.Each(validation.Length(1, MaxTagLength))),
		validation.Field(&b.CreatedAt, validation.Required),
		validation.Field(&b.UpdatedAt, validation.Required),
	}
}

// Validate checks the task against its schema.
func (t *Task) Validate() error {
	rules := append(baseRules(&t.BaseItem),
		validation.Field(&t.Status, validation.Required, validation.In(toStrings(TaskStatuses)...)),
		validation.Field(&t.Priority, validation.In(toStrings(Priorities)...)),
	)
	return asValidationError(validation.ValidateStruct(t, rules...))
}

// Validate checks the epic against its schema. Area is required.
func (e *Epic) Validate() error {
	rules := append(baseRules(&e.BaseItem),
		validation.Field(&e.Status, validation.Required, validation.In(toStrings(EpicStatuses)...)),
		validation.Field(&e.Area, validation.Required),
	)
	return asValidationError(validation.ValidateStruct(e, rules...))
}

// Validate checks the area against its schema.
func (a *Area) Validate() error {
	rules := append(baseRules(&a.BaseItem),
		validation.Field(&a.Status, validation.Required, validation.In(toStrings(AreaStatuses)...)),
		validation.Field(&a.Maintenance, validation.Required, validation.In(toStrings(Maintenances)...)),
		validation.Field(&a.Purpose, validation.Required),
	)
	return asValidationError(validation.ValidateStruct(a, rules...))
}

// Validate checks the resource against its schema. At least one area
// reference is required.
func (r *Resource) Validate() error {
	rules := append(baseRules(&r.BaseItem),
		validation.Field(&r.Status, validation.Required, validation.In(toStrings(ResourceStatuses)...)),
		validation.Field(&r.Areas, validation.Required),
		validation.Field(&r.Purpose, validation.Required),
	)
	return asValidationError(validation.ValidateStruct(r, rules...))
}

// asValidationError converts ozzo field errors into an
// apperr.ValidationError listing every offending field.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	errs, ok := err.(validation.Errors)
	if !ok {
		return &apperr.ValidationError{Fields: []apperr.FieldError{{Field: "item", Message: err.Error()}}}
	}
	fields := make([]apperr.FieldError, 0, len(errs))
	for name, ferr := range errs {
		fields = append(fields, apperr.FieldError{Field: name, Message: ferr.Error()})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return &apperr.ValidationError{Fields: fields}
}
