package genres

type ListGenreBooksQuery struct {
	Limit  int `query:"limit" json:"limit" default:"24" validate:"min=1,max=100"`
	Offset int `query:"offset" json:"offset" validate:"min=0"`
}
