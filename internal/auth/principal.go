package auth

// Principal is the authenticated identity attached to a request after
// session-token verification. It carries only non-sensitive fields.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
