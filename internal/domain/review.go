package domain

import "time"

type Review struct {
	ReviewID    string       `json:"id" dynamodbav:"review_id"`
	UserID      string       `json:"user_id" dynamodbav:"user_id"`
	UserProfile *UserProfile `json:"user_profile,omitempty" dynamodbav:"user_profile"`
	ParkID      string       `json:"park_id" dynamodbav:"park_id"`
	Rating      int          `json:"rating" dynamodbav:"rating"`
	Title       string       `json:"title" dynamodbav:"title"`
	Description string       `json:"description" dynamodbav:"description"`
	Likes       []string     `json:"likes" dynamodbav:"likes,stringset,omitempty"`
	Dislikes    []string     `json:"dislikes" dynamodbav:"dislikes,stringset,omitempty"`
	CreatedAt   time.Time    `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time    `json:"updated" dynamodbav:"updated_at"`
}

type ReviewInput struct {
	ParkPlaceID string `json:"park_place_id" validate:"required"`
	Title       string `json:"title"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Description string `json:"description"`
}
