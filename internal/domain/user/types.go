package user

// Role identifies which side of the marketplace an account belongs to.
type Role string

const (
	RoleArtist       Role = "artist"
	RoleEngineer     Role = "engineer"
	RoleProducer     Role = "producer"
	RoleStoodioOwner Role = "stoodio_owner"
	RoleLabel        Role = "label"
	RoleAdmin        Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleArtist, RoleEngineer, RoleProducer, RoleStoodioOwner, RoleLabel, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsTalent reports whether accounts with this role can be party to a
// label contract.
func (r Role) IsTalent() bool {
	return r == RoleEngineer || r == RoleProducer
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
