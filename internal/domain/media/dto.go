package media

type UpdateRequest struct {
	AltText *string `json:"alt_text" binding:"omitempty,max=255"`
	Folder  *string `json:"folder" binding:"omitempty,max=100"`
}

type ListFilter struct {
	Folder   string
	Page     int
	PageSize int
}
