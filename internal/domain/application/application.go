package application

import (
	"time"

	"skillbridge/internal/common"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Terminal reports whether no further status transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusAccepted || s == StatusRejected
}

// Application carries denormalized applicant and task names so that list
// views render without extra lookups, matching the stored record shape.
type Application struct {
	ID            common.UUID `json:"id"`
	TaskID        common.UUID `json:"taskId"`
	ApplicantID   common.UUID `json:"applicantId"`
	ApplicantName string      `json:"applicantName"`
	TaskTitle     string      `json:"taskTitle"`
	Status        Status      `json:"status"`
	AppliedAt     time.Time   `json:"appliedAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}
