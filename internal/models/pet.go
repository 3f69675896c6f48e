package models

import "time"

// PetStatus is the kind of report a PetRecord represents.
type PetStatus string

const (
	PetStatusLost  PetStatus = "Lost"
	PetStatusFound PetStatus = "Found"
)

// PetRecord is a single lost or found report. Records are only ever
// created or deleted, never updated.
type PetRecord struct {
	ID                 string    `json:"_id"`
	PetName            string    `json:"petName"`
	Breed              string    `json:"breed"`
	Description        string    `json:"description"`
	Color              string    `json:"color"`
	LastSeenLocation   string    `json:"lastSeenLocation"`
	DateLost           string    `json:"dateLost"`
	ContactInfo        string    `json:"contactInfo"`
	ImageURL           string    `json:"imageUrl"`
	IdentificationMark string    `json:"identificationMark"`
	Status             PetStatus `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
}

// PetReport carries the descriptive fields submitted with a lost or found report.
type PetReport struct {
	PetName            string `json:"petName"`
	Breed              string `json:"breed"`
	Description        string `json:"description"`
	Color              string `json:"color"`
	LastSeenLocation   string `json:"lastSeenLocation"`
	DateLost           string `json:"dateLost"`
	ContactInfo        string `json:"contactInfo"`
	ImageURL           string `json:"imageUrl"`
	IdentificationMark string `json:"identificationMark"`
}

// ToRecord builds a new record with the given status. ID and CreatedAt are
// assigned by the store.
func (r PetReport) ToRecord(status PetStatus) PetRecord {
	return PetRecord{
		PetName:            r.PetName,
		Breed:              r.Breed,
		Description:        r.Description,
		Color:              r.Color,
		LastSeenLocation:   r.LastSeenLocation,
		DateLost:           r.DateLost,
		ContactInfo:        r.ContactInfo,
		ImageURL:           r.ImageURL,
		IdentificationMark: r.IdentificationMark,
		Status:             status,
	}
}

// PetFilter is an equality filter over pet records. Nil fields are not
// constrained; a non-nil pointer to "" matches only empty values.
type PetFilter struct {
	Status             PetStatus
	IdentificationMark *string
	Breed              *string
	Color              *string
}

// Matches reports whether rec satisfies every constrained field.
func (f PetFilter) Matches(rec PetRecord) bool {
	if f.Status != "" && rec.Status != f.Status {
		return false
	}
	if f.IdentificationMark != nil && rec.IdentificationMark != *f.IdentificationMark {
		return false
	}
	if f.Breed != nil && rec.Breed != *f.Breed {
		return false
	}
	if f.Color != nil && rec.Color != *f.Color {
		return false
	}
	return true
}
