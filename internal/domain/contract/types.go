package contract

// Type decides how session earnings split between label and talent.
type Type string

const (
	// TypeFullRecoup routes earnings to the label until the advance is
	// recouped, then everything to the talent.
	TypeFullRecoup Type = "full_recoup"
	// TypePercentage routes a fixed split to the label on every session.
	TypePercentage Type = "percentage"
)

func (t Type) IsValid() bool {
	return t == TypeFullRecoup || t == TypePercentage
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// TalentRole is which side of a session the contracted talent works.
type TalentRole string

const (
	TalentEngineer TalentRole = "engineer"
	TalentProducer TalentRole = "producer"
)
