package domain

import "time"

const (
	ParkSizeSmall  = "small"
	ParkSizeMedium = "medium"
	ParkSizeLarge  = "large"
)

type Park struct {
	ParkID          string    `json:"id" dynamodbav:"park_id"`
	PlaceID         string    `json:"place_id" dynamodbav:"place_id"`
	Name            string    `json:"name" dynamodbav:"name"`
	Address         string    `json:"address" dynamodbav:"address"`
	Latitude        float64   `json:"latitude" dynamodbav:"latitude"`
	Longitude       float64   `json:"longitude" dynamodbav:"longitude"`
	Facilities      []string  `json:"facilities" dynamodbav:"facilities"`
	Size            string    `json:"size" dynamodbav:"size"`
	Rating          *float64  `json:"rating" dynamodbav:"rating"`
	ProfileImageURL string    `json:"profile_image_url" dynamodbav:"profile_image_url"`
	ImageURLs       []string  `json:"image_urls" dynamodbav:"image_urls"`
	CreatedAt       time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt       time.Time `json:"updated" dynamodbav:"updated_at"`
}

type ParkInput struct {
	Name      string  `json:"name" validate:"required"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
	PlaceID   string  `json:"place_id" validate:"required"`
}
