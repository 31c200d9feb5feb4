package domain

// Identity is the minimal user information kept in a session.
type Identity struct {
	Email string
	Name  string
}

// IdentityOf projects a user onto its session identity.
func IdentityOf(u *User) Identity {
	return Identity{Email: u.Email, Name: u.Name}
}
