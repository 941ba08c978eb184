package domain

// User is the identity the session gate resolves. Credential checking
// lives in the session package; the rest of the system only sees this.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
