package domain

import "time"

// CheckIn records a dog's visit to a park. At most one check-in per
// (user, dog) pair is active at any time. Records are never deleted.
//
// LeaveTime is only stamped by an explicit checkout; a check-in that was
// deactivated because the same dog checked in again keeps LeaveTime nil.
type CheckIn struct {
	CheckInID   string     `json:"id" dynamodbav:"checkin_id"`
	UserID      string     `json:"user_id" dynamodbav:"user_id"`
	ParkID      string     `json:"park_id" dynamodbav:"park_id"`
	DogID       string     `json:"dog_id" dynamodbav:"dog_id"`
	ArrivalTime time.Time  `json:"arrival_time" dynamodbav:"arrival_time"`
	LeaveTime   *time.Time `json:"leave_time" dynamodbav:"leave_time,omitempty"`
	IsActive    bool       `json:"is_active" dynamodbav:"is_active"`
	CreatedAt   time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CheckInRequest struct {
	ParkPlaceID string  `json:"park_place_id" validate:"required"`
	DogID       string  `json:"dog_id" validate:"required"`
	Latitude    float64 `json:"latitude" validate:"latitude"`
	Longitude   float64 `json:"longitude" validate:"longitude"`
}

// Check-in feed event types.
const (
	EventCheckInCreated = "checkin.created"
	EventCheckInClosed  = "checkin.closed"
)

// CheckInEvent is published to the live check-in feed after a state change.
type CheckInEvent struct {
	Type       string    `json:"type"`
	CheckIn    CheckIn   `json:"checkin"`
	OccurredAt time.Time `json:"occurred_at"`
}
