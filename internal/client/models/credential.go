package models

// Credential is the access/refresh token pair issued at login or
// registration. Tokens are opaque to everything but the auth gateway.
type Credential struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Complete reports whether both halves are present.
func (c Credential) Complete() bool {
	return c.Access != "" && c.Refresh != ""
}

// AuthResponse is the body returned by login and register.
type AuthResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}

func (r AuthResponse) Credential() Credential {
	return Credential{Access: r.Access, Refresh: r.Refresh}
}
