package domain

// Profile is a saved server connection. Passwords are never stored: a
// profile carries a personal access token or a login whose password comes
// from STASH_PASSWORD.
type Profile struct {
	Name     string `yaml:"name" json:"name"`
	URL      string `yaml:"url" json:"url"`
	Login    string `yaml:"login,omitempty" json:"login,omitempty"`
	Token    string `yaml:"token,omitempty" json:"-"`
	IsActive bool   `yaml:"-" json:"active"`
}

type ProfileRepository interface {
	ListProfiles() ([]Profile, error)
	GetProfile(name string) (*Profile, error)
	SaveProfile(p Profile) error
	DeleteProfile(name string) error
	SetActiveProfile(name string) error
	GetActiveProfile() (*Profile, error)
}
