package dto

import (
	"time"

	"courtly/internal/domain/comments"
)

type Comment struct {
	ID         string    `json:"id"`
	PostBy     string    `json:"postBy"`
	AuthorName string    `json:"authorName,omitempty"`
	PostTo     string    `json:"postTo"`
	Comment    string    `json:"comment"`
	Rating     int       `json:"ratingValue"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func MapComment(c *comments.Comment) Comment {
	return Comment{
		ID:        string(c.ID),
		PostBy:    c.AuthorID,
		PostTo:    c.LessorID,
		Comment:   c.Text,
		Rating:    c.Rating,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func MapComments(list []*comments.Comment) []Comment {
	out := make([]Comment, 0, len(list))
	for _, c := range list {
		out = append(out, MapComment(c))
	}
	return out
}
