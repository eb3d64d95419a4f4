package model

import "time"

type Post struct {
	ID               int64     `json:"id"`
	User             string    `json:"user"`
	Text             string    `json:"text"`
	ImageRef         string    `json:"image_ref"`
	ImageContentType string    `json:"image_content_type"`
	ImageSize        int64     `json:"image_size"`
	CreatedAt        time.Time `json:"created_at"`
}
