package valueobjects

// UserType distinguishes the two client roles in a discussion thread.
type UserType string

const (
	UserTypeEmployee UserType = "employee"
	UserTypeEngineer UserType = "engineer"
)

func (u UserType) String() string {
	return string(u)
}

func (u UserType) IsValid() bool {
	return u == UserTypeEmployee || u == UserTypeEngineer
}

func (u UserType) IsEngineer() bool {
	return u == UserTypeEngineer
}

// ParseUserType validates and converts a raw string.
func ParseUserType(raw string) (UserType, bool) {
	u := UserType(raw)
	return u, u.IsValid()
}
