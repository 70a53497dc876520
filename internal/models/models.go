package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ---------------- REGISTRATIONS ----------------
type Registration struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Course    string    `gorm:"not null" json:"course"`
	Branch    string    `gorm:"not null" json:"branch"`
	College   string    `gorm:"index;not null" json:"college"`
	Contact   string    `gorm:"not null" json:"contact"`
	Event     string    `gorm:"index;not null" json:"event"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RegistrationInput carries the seven business fields a client supplies on
// create and on a full-document update.
type RegistrationInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Course  string `json:"course"`
	Branch  string `json:"branch"`
	College string `json:"college"`
	Contact string `json:"contact"`
	Event   string `json:"event"`
}

// Input returns the business fields of r.
func (r Registration) Input() RegistrationInput {
	return RegistrationInput{
		Name:    r.Name,
		Email:   r.Email,
		Course:  r.Course,
		Branch:  r.Branch,
		College: r.College,
		Contact: r.Contact,
		Event:   r.Event,
	}
}

// Apply overwrites every business field of r with in.
func (r *Registration) Apply(in RegistrationInput) {
	r.Name = in.Name
	r.Email = in.Email
	r.Course = in.Course
	r.Branch = in.Branch
	r.College = in.College
	r.Contact = in.Contact
	r.Event = in.Event
}

// Normalize trims surrounding whitespace from every field.
func (in RegistrationInput) Normalize() RegistrationInput {
	for _, f := range BusinessFields() {
		in = in.With(f.Key, strings.TrimSpace(in.Get(f.Key)))
	}
	return in
}

// Get returns the input value for a business field key.
func (in RegistrationInput) Get(key string) string {
	r := Registration{}
	r.Apply(in)
	return r.Text(key)
}

// With returns a copy of in with the field key set to value. Unknown keys
// leave the input unchanged.
func (in RegistrationInput) With(key, value string) RegistrationInput {
	switch key {
	case KeyName:
		in.Name = value
	case KeyEmail:
		in.Email = value
	case KeyCourse:
		in.Course = value
	case KeyBranch:
		in.Branch = value
	case KeyCollege:
		in.College = value
	case KeyContact:
		in.Contact = value
	case KeyEvent:
		in.Event = value
	}
	return in
}

// ---------------- OUTBOX (for sync events) ----------------
type Outbox struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	EntityType string         `gorm:"index;not null" json:"entity_type"`
	EntityID   uuid.UUID      `gorm:"type:uuid;not null" json:"entity_id"`
	Op         string         `gorm:"not null" json:"op"` // UPSERT | DELETE
	Payload    datatypes.JSON `json:"payload,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	Processed  bool           `gorm:"default:false" json:"processed"`
}

const (
	EntityRegistration = "registration"

	OpUpsert = "UPSERT"
	OpDelete = "DELETE"
)
