package patient

import (
	"strings"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Status represents the lifecycle state of a patient record.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Patient is a registered patient. IDs follow the "P###" pattern.
type Patient struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string    `json:"name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Gender      Gender    `json:"gender"`

	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`

	Allergies []string `json:"allergies,omitempty"`
	BloodType string   `json:"blood_type,omitempty"`

	Status Status `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

func (p *Patient) Age() int {
	now := time.Now()
	years := now.Year() - p.DateOfBirth.Year()
	if now.Month() < p.DateOfBirth.Month() ||
		(now.Month() == p.DateOfBirth.Month() && now.Day() < p.DateOfBirth.Day()) {
		years--
	}
	return years
}

func (p *Patient) IsActive() bool {
	return p.Status == StatusActive
}

type CreatePatientCommand struct {
	Name        string
	DateOfBirth time.Time
	Gender      Gender
	Phone       string
	Email       string
	Address     string
	Allergies   []string
	BloodType   string
	Notes       string
}

type UpdatePatientCommand struct {
	Name      *string
	Gender    *Gender
	Phone     *string
	Email     *string
	Address   *string
	Allergies *[]string
	BloodType *string
	Notes     *string
}

type ListPatientsQuery struct {
	Search string // case-insensitive substring match on name
	Status *Status
}

// MatchesSearch is the shared name filter used by the store.
func (p *Patient) MatchesSearch(search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(search))
}
