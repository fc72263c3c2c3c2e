package service

// FormMode fixes whether a form creates a record or edits an existing one. The
// mode is chosen when the form opens and never changes afterwards.
type FormMode[T any] struct {
	existing *T
}

// CreateMode opens an empty form.
func CreateMode[T any]() FormMode[T] {
	return FormMode[T]{}
}

// EditMode opens a form pre-populated from existing.
func EditMode[T any](existing T) FormMode[T] {
	return FormMode[T]{existing: &existing}
}

// IsEdit reports whether the form edits an existing record.
func (m FormMode[T]) IsEdit() bool {
	return m.existing != nil
}

// Existing returns the edited record in edit mode.
func (m FormMode[T]) Existing() (T, bool) {
	if m.existing == nil {
		var zero T
		return zero, false
	}
	return *m.existing, true
}
