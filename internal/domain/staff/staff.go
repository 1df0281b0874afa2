package staff

import (
	"time"

	"github.com/clinicore/clinicore/internal/domain"
)

// Staff is a clinic employee record. IDs follow the "S###" pattern. The login
// credential lives in the user store and links back via StaffID.
type Staff struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone,omitempty"`
	Specialty string      `json:"specialty,omitempty"` // doctors only

	IsActive bool `json:"is_active"`
}

type CreateStaffCommand struct {
	Name      string
	Role      domain.Role
	Email     string
	Phone     string
	Specialty string
	Password  string
}

type UpdateStaffCommand struct {
	Name      *string
	Phone     *string
	Specialty *string
}

type ListStaffQuery struct {
	Role       *domain.Role
	ActiveOnly bool
}
