package enum

// InteractionType is the channel of a logged staff-customer contact
type InteractionType string

const (
	InteractionTypePhone   InteractionType = "phone"
	InteractionTypeEmail   InteractionType = "email"
	InteractionTypeMeeting InteractionType = "meeting"
	InteractionTypeVisit   InteractionType = "visit"
	InteractionTypeOther   InteractionType = "other"
)

// IsValid reports whether t is a known interaction type
func (t InteractionType) IsValid() bool {
	switch t {
	case InteractionTypePhone, InteractionTypeEmail, InteractionTypeMeeting, InteractionTypeVisit, InteractionTypeOther:
		return true
	}
	return false
}
