package domain

import "time"

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

type User struct {
	UserID          string     `json:"id" dynamodbav:"user_id"`
	Username        string     `json:"username" dynamodbav:"username"`
	Email           string     `json:"email" dynamodbav:"email"`
	PasswordHash    string     `json:"-" dynamodbav:"password_hash"`
	FullName        string     `json:"full_name" dynamodbav:"full_name"`
	PhoneNumber     *string    `json:"phone_number" dynamodbav:"phone_number"`
	Birthdate       *time.Time `json:"birthdate" dynamodbav:"birthdate"`
	Gender          string     `json:"gender" dynamodbav:"gender"`
	ProfileImageURL string     `json:"profile_image_url" dynamodbav:"profile_image_url"`
	Role            string     `json:"role" dynamodbav:"role"`
	CreatedAt       time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt       time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// Profile returns the public projection of u. Reviews embed it as an
// author snapshot.
func (u *User) Profile() *UserProfile {
	return &UserProfile{
		Username:        u.Username,
		FullName:        u.FullName,
		PhoneNumber:     u.PhoneNumber,
		Birthdate:       u.Birthdate,
		Gender:          u.Gender,
		ProfileImageURL: u.ProfileImageURL,
	}
}

type UserProfile struct {
	Username        string     `json:"username" dynamodbav:"username"`
	FullName        string     `json:"full_name" dynamodbav:"full_name"`
	PhoneNumber     *string    `json:"phone_number" dynamodbav:"phone_number"`
	Birthdate       *time.Time `json:"birthdate" dynamodbav:"birthdate"`
	Gender          string     `json:"gender" dynamodbav:"gender"`
	ProfileImageURL string     `json:"profile_image_url" dynamodbav:"profile_image_url"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72,containsany=ABCDEFGHIJKLMNOPQRSTUVWXYZ"`
	FullName string `json:"full_name"`
	Gender   string `json:"gender" validate:"omitempty,oneof=male female other"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
	Birthdate   *string `json:"birthdate"` // expected format: YYYY-MM-DD
	Gender      *string `json:"gender" validate:"omitempty,oneof=male female other"`
}
