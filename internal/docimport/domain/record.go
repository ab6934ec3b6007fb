package domain

import "time"

// ExtractedFields holds the labeled contact fields parsed from a
// document's text. Name is always set, falling back to "Unknown";
// every other field is either nil or a trimmed non-empty string.
type ExtractedFields struct {
	Name       string
	Email      *string
	Phone      *string
	Address    *string
	City       *string
	State      *string
	Zip        *string
	DOB        *string
	Gender     *string
	Occupation *string
}

// ImportedRecord is the persisted result of one document import.
// Records are written once and never mutated.
type ImportedRecord struct {
	ID         string    `json:"id" db:"id"`
	Filename   string    `json:"filename" db:"filename"`
	Name       string    `json:"name" db:"name"`
	Email      *string   `json:"email" db:"email"`
	Phone      *string   `json:"phone" db:"phone"`
	Address    *string   `json:"address" db:"address"`
	City       *string   `json:"city" db:"city"`
	State      *string   `json:"state" db:"state"`
	Zip        *string   `json:"zip" db:"zip"`
	DOB        *string   `json:"dob" db:"dob"`
	Gender     *string   `json:"gender" db:"gender"`
	Occupation *string   `json:"occupation" db:"occupation"`
	UserID     *string   `json:"user_id" db:"user_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// FieldsFound counts how many contact fields were extracted,
// counting name only when it is not the fallback.
func (r *ImportedRecord) FieldsFound() int {
	count := 0
	if r.Name != "" && r.Name != "Unknown" {
		count++
	}
	for _, f := range []*string{r.Email, r.Phone, r.Address, r.City, r.State, r.Zip, r.DOB, r.Gender, r.Occupation} {
		if f != nil {
			count++
		}
	}
	return count
}
