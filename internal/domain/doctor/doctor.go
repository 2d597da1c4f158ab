package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Doctor is a directory entry for a reviewing physician. The ID equals the
// owning user account's ID.
type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`

	MedicalLicenseNumber string `gorm:"column:medical_license_number;type:varchar(100)"`
	Specialization       string `gorm:"column:specialization;type:varchar(100);index"`
	ContactNumber        string `gorm:"column:contact_number;type:varchar(30)"`
	HospitalAffiliation  string `gorm:"column:hospital_affiliation;type:varchar(255)"`

	IsAvailable bool `gorm:"column:is_available;default:true;index"`

	// LastAssignmentDate is stamped whenever the allocator binds this doctor
	// to a report. Null means never assigned; the allocator treats null as
	// oldest. Monotonically non-decreasing for a given doctor.
	LastAssignmentDate *time.Time `gorm:"column:last_assignment_date;index"`
}

func (Doctor) TableName() string {
	return "clinical.doctors"
}

type UpdateDoctorCommand struct {
	MedicalLicenseNumber *string
	Specialization       *string
	ContactNumber        *string
	HospitalAffiliation  *string
}
