package domain

import "time"

// DefaultBreed is stored when a dog is created without a breed.
const DefaultBreed = "other"

type Dog struct {
	DogID              string     `json:"id" dynamodbav:"dog_id"`
	OwnerID            string     `json:"owner_id" dynamodbav:"owner_id"`
	Name               string     `json:"name" dynamodbav:"name"`
	Breed              string     `json:"breed" dynamodbav:"breed"`
	BirthDate          *time.Time `json:"birthdate" dynamodbav:"birthdate"`
	Gender             *string    `json:"gender" dynamodbav:"gender"`
	Description        *string    `json:"description" dynamodbav:"description"`
	IsSpayedOrNeutered *bool      `json:"is_spayed_or_neutered" dynamodbav:"is_spayed_or_neutered"`
	Weight             *float64   `json:"weight" dynamodbav:"weight"`
	ProfileImageURL    string     `json:"profile_image_url" dynamodbav:"profile_image_url"`
	Followers          []string   `json:"followers" dynamodbav:"followers,stringset,omitempty"`
	Following          []string   `json:"following" dynamodbav:"following,stringset,omitempty"`
	CreatedAt          time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt          time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type DogInput struct {
	Name               string   `json:"name" validate:"required"`
	Breed              *string  `json:"breed"`
	BirthDate          *string  `json:"birthdate"` // expected format: YYYY-MM-DD
	Gender             *string  `json:"gender" validate:"omitempty,oneof=male female"`
	Description        *string  `json:"description"`
	IsSpayedOrNeutered *bool    `json:"is_spayed_or_neutered"`
	Weight             *float64 `json:"weight" validate:"omitempty,gt=0"`
}

type FollowRequest struct {
	FollowerDogID  string `json:"follower_dog_id" validate:"required"`
	FollowingDogID string `json:"following_dog_id" validate:"required,nefield=FollowerDogID"`
}
