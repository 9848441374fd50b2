package patient

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnknown:
		return true
	}
	return false
}

type Patient struct {
	ID        uuid.UUID  `gorm:"type:text;primaryKey"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"` // Soft delete

	FirstName  string `gorm:"column:first_name;not null"`
	MiddleName string `gorm:"column:middle_name"`
	LastName   string `gorm:"column:last_name;not null"`
	NameExt    string `gorm:"column:name_ext"` // Jr., Sr., III, ...

	BirthDate time.Time `gorm:"column:birth_date;not null"`
	Gender    Gender    `gorm:"column:gender;not null"`

	Contact   string `gorm:"column:contact"`
	Address   string `gorm:"column:address"`
	Diagnosis string `gorm:"column:diagnosis"`
	Notes     string `gorm:"column:notes"` // PHI

	// Audit: who registered this patient
	CreatedBy uuid.UUID `gorm:"column:created_by;type:text;not null"`
}

func (Patient) TableName() string {
	return "patients"
}

// FullName joins the name parts, skipping blanks.
func (p *Patient) FullName() string {
	parts := make([]string, 0, 4)
	for _, s := range []string{p.FirstName, p.MiddleName, p.LastName, p.NameExt} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// BirthDateString renders the birth date as YYYY-MM-DD, the wire and export
// format for dates.
func (p *Patient) BirthDateString() string {
	return fmt.Sprintf("%04d-%02d-%02d", p.BirthDate.Year(), p.BirthDate.Month(), p.BirthDate.Day())
}

// Age returns whole years since the birth date, never negative.
func (p *Patient) Age() int {
	return AgeAt(p.BirthDate, time.Now())
}

// AgeAt computes whole years between birth and a reference time. A birthday
// later in the reference year has not happened yet and does not count.
func AgeAt(birth, at time.Time) int {
	years := at.Year() - birth.Year()
	if at.Month() < birth.Month() ||
		(at.Month() == birth.Month() && at.Day() < birth.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

type CreatePatientCommand struct {
	FirstName  string
	MiddleName string
	LastName   string
	NameExt    string

	// Birth date arrives as the year/month/day dropdown triple.
	BirthYear  int
	BirthMonth int
	BirthDay   int

	Gender    Gender
	Contact   string
	Address   string
	Diagnosis string
	Notes     string
	CreatedBy uuid.UUID
}

type UpdatePatientCommand struct {
	FirstName  *string
	MiddleName *string
	LastName   *string
	NameExt    *string

	BirthYear  *int
	BirthMonth *int
	BirthDay   *int

	Gender    *Gender
	Contact   *string
	Address   *string
	Diagnosis *string
	Notes     *string
	UpdatedBy uuid.UUID
}

// ListPatientsQuery defines filtering and pagination for patient list queries.
type ListPatientsQuery struct {
	Search    string // case-insensitive substring match on name parts
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string // "asc" | "desc"
}

type PagedPatients struct {
	Patients   []*Patient
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
