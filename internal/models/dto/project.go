package dto

// CreateProjectRequest adds a portfolio entry.
type CreateProjectRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Category    string `json:"category" validate:"required,max=100"`
	Description string `json:"description" validate:"max=5000"`
	ImageURL    string `json:"image_url" validate:"required,image_ref"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
