package domain

// SaveStatus is the process-wide persistence indicator. It is never persisted.
type SaveStatus string

const (
	SaveStatusIdle   SaveStatus = "idle"
	SaveStatusSaving SaveStatus = "saving"
	SaveStatusSaved  SaveStatus = "saved"
)

func (s SaveStatus) Valid() bool {
	switch s {
	case SaveStatusIdle, SaveStatusSaving, SaveStatusSaved:
		return true
	default:
		return false
	}
}

func (s SaveStatus) Label() string {
	switch s {
	case SaveStatusSaving:
		return "Saving..."
	case SaveStatusSaved:
		return "Saved"
	default:
		return ""
	}
}
