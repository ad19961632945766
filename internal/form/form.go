// Package form holds the values behind a wizard: ordered fields grouped by
// step, their defaults, and the error markers set by validation.
package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mgen/internal/wizard"
)

// Kind selects how a field is edited and displayed.
type Kind int

const (
	KindText Kind = iota
	KindMultiline
	KindBool
	KindChoice
)

// Option is one choice of a KindChoice field.
type Option struct {
	Value string
	Label string
}

// Field is a single input.
type Field struct {
	Ref         wizard.FieldRef
	Label       string
	Step        int
	Kind        Kind
	Default     string
	Placeholder string
	Options     []Option

	Value   string
	Errored bool
}

// Form is an ordered set of fields. It satisfies wizard.Form.
type Form struct {
	fields []*Field
	byRef  map[wizard.FieldRef]*Field
}

// New builds a form. Duplicate refs and choice defaults outside the options
// are programming errors.
func New(fields ...Field) (*Form, error) {
	f := &Form{byRef: make(map[wizard.FieldRef]*Field, len(fields))}
	for i := range fields {
		fd := fields[i]
		if fd.Ref == "" {
			return nil, fmt.Errorf("form: field %d has no ref", i)
		}
		if _, dup := f.byRef[fd.Ref]; dup {
			return nil, fmt.Errorf("form: duplicate field %q", fd.Ref)
		}
		if fd.Kind == KindChoice && fd.Default != "" && !fd.hasOption(fd.Default) {
			return nil, fmt.Errorf("form: default %q of %q is not an option", fd.Default, fd.Ref)
		}
		fd.Value = fd.Default
		fd.Errored = false
		f.fields = append(f.fields, &fd)
		f.byRef[fd.Ref] = &fd
	}
	return f, nil
}

func (fd *Field) hasOption(v string) bool {
	for _, o := range fd.Options {
		if o.Value == v {
			return true
		}
	}
	return false
}

// Field returns the field for ref.
func (f *Form) Field(ref wizard.FieldRef) (*Field, bool) {
	fd, ok := f.byRef[ref]
	return fd, ok
}

// Fields returns every field in declaration order.
func (f *Form) Fields() []*Field {
	return append([]*Field(nil), f.fields...)
}

// FieldsFor returns the fields of one step in declaration order.
func (f *Form) FieldsFor(step int) []*Field {
	var out []*Field
	for _, fd := range f.fields {
		if fd.Step == step {
			out = append(out, fd)
		}
	}
	return out
}

// Value returns the raw value of ref, or "" for an unknown ref.
func (f *Form) Value(ref wizard.FieldRef) string {
	if fd, ok := f.byRef[ref]; ok {
		return fd.Value
	}
	return ""
}

// Trimmed returns the value of ref without surrounding whitespace.
func (f *Form) Trimmed(ref wizard.FieldRef) string {
	return strings.TrimSpace(f.Value(ref))
}

// Bool interprets ref as a checkbox.
func (f *Form) Bool(ref wizard.FieldRef) bool {
	b, _ := strconv.ParseBool(f.Value(ref))
	return b
}

// Set assigns a value. Choice fields only accept one of their options.
func (f *Form) Set(ref wizard.FieldRef, value string) error {
	fd, ok := f.byRef[ref]
	if !ok {
		return fmt.Errorf("form: unknown field %q", ref)
	}
	if fd.Kind == KindChoice && value != "" && !fd.hasOption(value) {
		return fmt.Errorf("form: %q is not an option of %q", value, ref)
	}
	if fd.Kind == KindBool {
		if _, err := strconv.ParseBool(value); err != nil && value != "" {
			return fmt.Errorf("form: %q is not a boolean for %q", value, ref)
		}
	}
	fd.Value = value
	return nil
}

// Toggle flips a bool field.
func (f *Form) Toggle(ref wizard.FieldRef) error {
	return f.Set(ref, strconv.FormatBool(!f.Bool(ref)))
}

// Reset restores every field to its default and clears error markers.
func (f *Form) Reset() {
	for _, fd := range f.fields {
		fd.Value = fd.Default
		fd.Errored = false
	}
}

// MarkErrors flags the fields in r. Unknown refs are ignored.
func (f *Form) MarkErrors(r wizard.ValidationResult) {
	for _, ref := range r {
		if fd, ok := f.byRef[ref]; ok {
			fd.Errored = true
		}
	}
}

// ClearErrors removes every error marker.
func (f *Form) ClearErrors() {
	for _, fd := range f.fields {
		fd.Errored = false
	}
}

// Errored reports whether ref carries an error marker.
func (f *Form) Errored(ref wizard.FieldRef) bool {
	fd, ok := f.byRef[ref]
	return ok && fd.Errored
}

// HasErrors reports whether any field carries an error marker.
func (f *Form) HasErrors() bool {
	for _, fd := range f.fields {
		if fd.Errored {
			return true
		}
	}
	return false
}

// Missing returns the refs whose trimmed value is empty. An unknown ref is a
// programming error and returned as such.
func (f *Form) Missing(refs ...wizard.FieldRef) (wizard.ValidationResult, error) {
	var res wizard.ValidationResult
	for _, ref := range refs {
		if _, ok := f.byRef[ref]; !ok {
			return nil, fmt.Errorf("form: unknown field %q", ref)
		}
		if f.Trimmed(ref) == "" {
			res.Add(ref)
		}
	}
	return res, nil
}

// SplitList splits a comma separated value into trimmed entries, keeping
// empty entries so callers can reject them.
func SplitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
