package visit

import (
	"time"
)

// Status is the examination queue lifecycle.
//
// State transition possibilities:
//
//	waiting → in_exam → done
//	waiting → skipped
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusInExam  Status = "in_exam"
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
)

func (s Status) CanTransitionTo(next Status) bool {
	allowed := map[Status][]Status{
		StatusWaiting: {StatusInExam, StatusSkipped},
		StatusInExam:  {StatusDone},
		StatusDone:    {},
		StatusSkipped: {},
	}

	for _, n := range allowed[s] {
		if n == next {
			return true
		}
	}
	return false
}

// Visit is one entry in the daily examination queue. IDs follow the "Q###"
// pattern; Number restarts at 1 each day and orders the waiting room.
type Visit struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Number      int    `json:"number"`
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"` // denormalized snapshot
	Complaint   string `json:"complaint,omitempty"`
	DoctorName  string `json:"doctor_name,omitempty"`

	Status Status `json:"status"`

	CheckedInAt time.Time  `json:"checked_in_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

type CheckInCommand struct {
	PatientID string
	Complaint string
}

type ListVisitsQuery struct {
	Status    *Status
	PatientID string
	Date      *time.Time // matches the check-in calendar day
}
