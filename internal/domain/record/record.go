package record

import (
	"time"
)

type Vitals struct {
	BloodPressureSystolic  *int     `json:"bp_systolic,omitempty"`
	BloodPressureDiastolic *int     `json:"bp_diastolic,omitempty"`
	HeartRateBPM           *int     `json:"heart_rate_bpm,omitempty"`
	TemperatureCelsius     *float64 `json:"temperature_celsius,omitempty"`
	WeightKg               *float64 `json:"weight_kg,omitempty"`
	HeightCm               *float64 `json:"height_cm,omitempty"`
}

// MedicalRecord documents one examination. Records are append-only: once
// created they cannot be edited or deleted.
type MedicalRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	PatientID   string  `json:"patient_id"`
	PatientName string  `json:"patient_name"` // denormalized snapshot
	DoctorName  string  `json:"doctor_name"`
	VisitID     *string `json:"visit_id,omitempty"`

	Diagnosis string  `json:"diagnosis"`
	Treatment string  `json:"treatment,omitempty"`
	Vitals    *Vitals `json:"vitals,omitempty"`
	Notes     string  `json:"notes,omitempty"`
}

type CreateRecordCommand struct {
	PatientID  string
	DoctorName string
	VisitID    *string
	Diagnosis  string
	Treatment  string
	Vitals     *Vitals
	Notes      string
}

type ListRecordsQuery struct {
	PatientID string
	DateFrom  *time.Time
	DateTo    *time.Time
}
