package dtos

type TerritoryRequest struct {
	City   string `json:"city" binding:"required"`
	Radius int    `json:"radius" binding:"required,gt=0"`
}

type SourceRequest struct {
	Source string `json:"source" binding:"required"`
}

type RecipientRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type SendEmailRequest struct {
	// Optional override; defaults to the session's configured recipient.
	Email string `json:"email" binding:"omitempty,email"`
}
