package entity

import "time"

type Author struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	SortName    string    `json:"sort_name"`
	URL         string    `json:"url"`
	IsApproved  bool      `json:"is_approved"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
