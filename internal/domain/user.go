package domain

// User is a dashboard account. Role is EDITOR or ADMIN; public visitors have
// no account at all.
type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"`
}

// CanEdit reports whether the account may modify the listings collection.
func (u *User) CanEdit() bool {
	return u != nil && (u.Role == "EDITOR" || u.Role == "ADMIN")
}
