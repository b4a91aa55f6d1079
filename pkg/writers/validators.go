package writers

// CreateWriterPayload is the admin's registration form. "create" and "view"
// would shadow the static /admin/writers routes.
type CreateWriterPayload struct {
	ID       string `form:"id" json:"id" mod:"trim" validate:"required,min=3,max=50,handle,ne=create,ne=view"`
	Password string `form:"password" json:"password" validate:"required,min=6,max=72"`
}

// UpdateWriterPayload only carries the password; the id is the primary key
// and can't change.
type UpdateWriterPayload struct {
	Password string `form:"password" json:"password" validate:"required,min=6,max=72"`
}

// ListWritersQuery pages through the writer directory.
type ListWritersQuery struct {
	Limit  int `query:"limit" json:"limit" default:"50" validate:"min=1,max=100"`
	Offset int `query:"offset" json:"offset" validate:"min=0"`
}
