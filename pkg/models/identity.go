package models

// Identity is who a request is acting as. It's rebuilt from the session token
// and the stored writer on every request and is never persisted.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// CanModifyBook reports whether the identity may update or delete the book.
func (i *Identity) CanModifyBook(b *Book) bool {
	if i == nil || b == nil {
		return false
	}
	return i.IsAdmin() || i.ID == b.WriterID
}
