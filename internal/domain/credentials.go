package domain

// Credentials selects how requests authenticate. The concrete variants are
// NoAuth, BasicAuth and TokenAuth.
type Credentials interface {
	isCredentials()
}

// NoAuth sends no Authorization header.
type NoAuth struct{}

type BasicAuth struct {
	Login    string
	Password string
}

// TokenAuth authenticates with a Bitbucket personal access token sent as a
// Bearer token.
type TokenAuth struct {
	Token string
}

func (NoAuth) isCredentials()    {}
func (BasicAuth) isCredentials() {}
func (TokenAuth) isCredentials() {}

// NewCredentials maps an optional login/password pair onto a Credentials
// variant. A missing login means no authentication; a login without a
// password still authenticates with an empty password.
func NewCredentials(login, password string) Credentials {
	if login == "" {
		return NoAuth{}
	}
	return BasicAuth{Login: login, Password: password}
}

// LoginOf returns the login carried by c, or "" when there is none.
func LoginOf(c Credentials) string {
	if b, ok := c.(BasicAuth); ok {
		return b.Login
	}
	return ""
}
