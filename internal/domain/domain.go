package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleDoctor     Role = "doctor"
	RoleNurse      Role = "nurse"
	RolePharmacist Role = "pharmacist"
	RoleOwner      Role = "owner"
	RolePatient    Role = "patient"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleNurse, RolePharmacist, RoleOwner, RolePatient:
		return true
	}
	return false
}

// User is a login account. Staff accounts link to their staff record; patient
// accounts link to their patient record.
type User struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`

	StaffID   *string `json:"staff_id,omitempty"`
	PatientID *string `json:"patient_id,omitempty"`

	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionRead   AuditAction = "read"
	ActionUpdate AuditAction = "update"
	ActionDelete AuditAction = "delete"
	ActionLogin  AuditAction = "login"
)

type AuditLog struct {
	ID         uuid.UUID `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`

	// Who
	UserID    uuid.UUID `json:"user_id"`
	UserRole  Role      `json:"user_role"`
	IPAddress string    `json:"ip_address,omitempty"`

	// What
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`

	RequestID string `json:"request_id,omitempty"`
	Changes   string `json:"changes,omitempty"`
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"` // Always "Bearer"
}

type Claims struct {
	UserID    uuid.UUID `json:"sub"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	StaffID   *string   `json:"staff_id,omitempty"`
	PatientID *string   `json:"patient_id,omitempty"`
}
