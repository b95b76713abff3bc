package core

// Origin tags which directory a user came from.
type Origin string

const (
	OriginClient   Origin = "client"
	OriginInternal Origin = "internal"
)

// DirectoryUser is a user entry as the platform's directories list it.
type DirectoryUser struct {
	ID         string `json:"id" yaml:"id"`
	GivenName  string `json:"givenName" yaml:"givenName"`
	FamilyName string `json:"familyName" yaml:"familyName"`
	Email      string `json:"email" yaml:"email"`
}

// UnifiedUser is a directory user tagged with its origin.
type UnifiedUser struct {
	ID         string `json:"id" yaml:"id"`
	GivenName  string `json:"givenName" yaml:"givenName"`
	FamilyName string `json:"familyName" yaml:"familyName"`
	Email      string `json:"email" yaml:"email"`
	Origin     Origin `json:"type" yaml:"type"`
}

// UserType classifies the current session user.
type UserType string

const (
	UserInternal UserType = "internal"
	UserClient   UserType = "client"
)

// Session is the platform context a board is activated with.
type Session struct {
	GivenName     string          `json:"givenName" yaml:"givenName"`
	FamilyName    string          `json:"familyName" yaml:"familyName"`
	UserType      UserType        `json:"userType" yaml:"userType"`
	Token         string          `json:"-" yaml:"token"`
	Clients       []DirectoryUser `json:"clients" yaml:"clients"`
	InternalUsers []DirectoryUser `json:"internalUsers" yaml:"internalUsers"`
}

// IsInternal reports whether the session user belongs to the internal team.
func (s Session) IsInternal() bool { return s.UserType == UserInternal }
