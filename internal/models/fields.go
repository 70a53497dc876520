package models

import "time"

// FieldKind tells consumers how to compare and render a field.
type FieldKind int

const (
	KindText FieldKind = iota
	KindEmail
	KindTime
)

// Field describes one registration attribute. The ordered Fields list drives
// form flags, sort comparison and export columns.
type Field struct {
	Key   string
	Label string
	Kind  FieldKind
}

const (
	KeyName      = "name"
	KeyEmail     = "email"
	KeyCourse    = "course"
	KeyBranch    = "branch"
	KeyCollege   = "college"
	KeyContact   = "contact"
	KeyEvent     = "event"
	KeyCreatedAt = "createdAt"
	KeyUpdatedAt = "updatedAt"
)

// businessCount is the number of leading entries in Fields that a client
// supplies; the rest are maintained by the store.
const businessCount = 7

var Fields = []Field{
	{Key: KeyName, Label: "Name", Kind: KindText},
	{Key: KeyEmail, Label: "Email", Kind: KindEmail},
	{Key: KeyCourse, Label: "Course", Kind: KindText},
	{Key: KeyBranch, Label: "Branch", Kind: KindText},
	{Key: KeyCollege, Label: "College", Kind: KindText},
	{Key: KeyContact, Label: "Contact", Kind: KindText},
	{Key: KeyEvent, Label: "Event", Kind: KindText},
	{Key: KeyCreatedAt, Label: "Created", Kind: KindTime},
	{Key: KeyUpdatedAt, Label: "Updated", Kind: KindTime},
}

// BusinessFields returns the seven required, client-supplied fields in
// display order.
func BusinessFields() []Field {
	out := make([]Field, businessCount)
	copy(out, Fields[:businessCount])
	return out
}

// FieldByKey looks up a descriptor.
func FieldByKey(key string) (Field, bool) {
	for _, f := range Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Text returns the string value of a text or email field, or "" for unknown
// and time keys.
func (r Registration) Text(key string) string {
	switch key {
	case KeyName:
		return r.Name
	case KeyEmail:
		return r.Email
	case KeyCourse:
		return r.Course
	case KeyBranch:
		return r.Branch
	case KeyCollege:
		return r.College
	case KeyContact:
		return r.Contact
	case KeyEvent:
		return r.Event
	}
	return ""
}

// Time returns the value of a time field, or the zero time.
func (r Registration) Time(key string) time.Time {
	switch key {
	case KeyCreatedAt:
		return r.CreatedAt
	case KeyUpdatedAt:
		return r.UpdatedAt
	}
	return time.Time{}
}

// Missing lists the keys of business fields that are empty in in.
func (in RegistrationInput) Missing() []string {
	var missing []string
	for _, f := range BusinessFields() {
		if in.Get(f.Key) == "" {
			missing = append(missing, f.Key)
		}
	}
	return missing
}
