package elastic

import (
	"encoding/json"
	"time"

	"github.com/sirdesai22/registration-dashboard/internal/models"
)

type RegistrationDoc struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Course    string    `json:"course"`
	Branch    string    `json:"branch"`
	College   string    `json:"college"`
	Contact   string    `json:"contact"`
	Event     string    `json:"event"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func BuildRegistrationDoc(r models.Registration) ([]byte, error) {
	return json.Marshal(RegistrationDoc{
		Name:      r.Name,
		Email:     r.Email,
		Course:    r.Course,
		Branch:    r.Branch,
		College:   r.College,
		Contact:   r.Contact,
		Event:     r.Event,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	})
}
