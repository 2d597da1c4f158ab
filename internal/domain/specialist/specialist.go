package specialist

// Mapping links a declared report type to the medical specialization required
// to review it. The table is seeded once at startup and read-only afterwards.
type Mapping struct {
	ReportType     string `gorm:"column:report_type;type:varchar(100);primaryKey"`
	Specialization string `gorm:"column:specialization;type:varchar(100);not null"`
}

func (Mapping) TableName() string {
	return "clinical.report_specialist_mappings"
}

// Defaults is the seed set applied at initialization.
func Defaults() []Mapping {
	return []Mapping{
		{"Blood Test", "General Physician"},
		{"X-Ray", "Radiologist"},
		{"MRI Scan", "Radiologist"},
		{"Cardiology Report", "Cardiologist"},
		{"Neurology Report", "Neurologist"},
		{"General Checkup", "General Physician"},
		{"Diabetes Report", "Endocrinologist"},
		{"Liver Function Test", "Hepatologist"},
		{"Kidney Function Test", "Nephrologist"},
		{"Lipid Profile", "General Physician"},
		{"Thyroid Function Test", "Endocrinologist"},
		{"Eye Test", "Ophthalmologist"},
		{"Hearing Test", "ENT Specialist"},
		{"Urine Test", "Nephrologist"},
		{"Stool Test", "Gastroenterologist"},
		{"Others Test", "General Physician"},
	}
}
