package profile

import (
	"time"

	"skillbridge/internal/common"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleRecruiter
}

// Profile is the application-level user record, distinct from the auth account.
// It is created lazily on first authenticated access with role student.
type Profile struct {
	UID         common.UUID `json:"uid"`
	DisplayName string      `json:"displayName"`
	Email       string      `json:"email"`
	Role        Role        `json:"role"`
	Education   string      `json:"education,omitempty"`
	College     string      `json:"college,omitempty"`
	City        string      `json:"city,omitempty"`
	PhoneNumber string      `json:"phoneNumber,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
