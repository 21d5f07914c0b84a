package model

import "time"

type Challenge struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateChallengeRequest struct {
	Type        string  `json:"type"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type UpdateChallengeRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}
