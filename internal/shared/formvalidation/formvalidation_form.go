package formvalidation

import (
	"context"
	"errors"
)

var ErrFormInvalid = errors.New("form has invalid fields")

// Form tracks values, errors and touched state of one form instance.
//
// Until the first submit attempt a field is validated when it loses focus.
// After it, SetValue validates on every change. Fields depending on a changed
// field are re-validated in both modes once they have been touched.
//
// A Form is not safe for concurrent use.
type Form struct {
	rules       *RuleSet
	values      map[string]string
	errors      map[string]string
	touched     map[string]bool
	submitCount int
	submitting  bool
}

func NewForm(rules *RuleSet, initial map[string]string) *Form {
	f := &Form{rules: rules}
	f.Reset(initial)
	return f
}

func (f *Form) Reset(initial map[string]string) {
	f.values = make(map[string]string, len(initial))
	for k, v := range initial {
		f.values[k] = v
	}
	f.errors = map[string]string{}
	f.touched = map[string]bool{}
	f.submitCount = 0
	f.submitting = false
}

// Restore reinstates interaction state captured by a client, so that a
// stateless caller can replay one event against it.
func (f *Form) Restore(touched []string, errs map[string]string, submitCount int) {
	for _, field := range touched {
		f.touched[field] = true
	}
	for field, msg := range errs {
		if msg != "" {
			f.errors[field] = msg
		}
	}
	if submitCount > 0 {
		f.submitCount = submitCount
	}
}

func (f *Form) SetValue(field, value string) {
	f.values[field] = value
	if f.submitCount > 0 {
		f.validateField(field)
	}
	f.revalidateDependents(field)
}

func (f *Form) Blur(field string) {
	f.touched[field] = true
	f.validateField(field)
	f.revalidateDependents(field)
}

// ValidateForm evaluates every rule and replaces the error state.
func (f *Form) ValidateForm() bool {
	f.errors = f.rules.Validate(f.values)
	return len(f.errors) == 0
}

// HandleSubmit counts the attempt and calls submit only when every field is valid.
func (f *Form) HandleSubmit(ctx context.Context, submit func(ctx context.Context, values map[string]string) error) error {
	f.submitCount++
	for _, field := range f.rules.Fields() {
		f.touched[field] = true
	}
	if !f.ValidateForm() {
		return ErrFormInvalid
	}

	f.submitting = true
	defer func() { f.submitting = false }()
	return submit(ctx, f.Values())
}

func (f *Form) validateField(field string) {
	if msg := f.rules.ValidateField(field, f.values); msg != "" {
		f.errors[field] = msg
		return
	}
	delete(f.errors, field)
}

func (f *Form) revalidateDependents(field string) {
	for _, dep := range f.rules.Dependents(field) {
		_, hasError := f.errors[dep]
		if f.submitCount > 0 || f.touched[dep] || hasError {
			f.validateField(dep)
		}
	}
}

func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

func (f *Form) Error(field string) string {
	return f.errors[field]
}

func (f *Form) Touched(field string) bool {
	return f.touched[field]
}

func (f *Form) SubmitCount() int {
	return f.submitCount
}

func (f *Form) Submitting() bool {
	return f.submitting
}

func (f *Form) IsValid() bool {
	return len(f.errors) == 0
}
