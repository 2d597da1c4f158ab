package assignment

import (
	"time"

	"github.com/google/uuid"
)

// PatientDoctorMapping records which doctor is responsible for a patient.
// At most one mapping per (patient, doctor) pair may be active; activating a
// new mapping for a pair deactivates the previous one. Mappings are
// deactivated, never hard-deleted.
type PatientDoctorMapping struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index:idx_mapping_pair"`
	DoctorID  uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index:idx_mapping_pair"`

	AssignedAt time.Time `gorm:"column:assigned_at;not null"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true;index"`
}

func (PatientDoctorMapping) TableName() string {
	return "clinical.patient_doctor_mappings"
}

func (m *PatientDoctorMapping) Deactivate() {
	m.IsActive = false
	m.UpdatedAt = time.Now().UTC()
}
