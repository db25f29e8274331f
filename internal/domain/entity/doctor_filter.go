package entity

// DoctorFilter is a domain-level filter for querying the doctor directory.
// Used by repository layer to avoid coupling with delivery DTOs.
type DoctorFilter struct {
	Specialty string // ILIKE match
	City      string // ILIKE match
	Verified  *bool  // nil means any
}
