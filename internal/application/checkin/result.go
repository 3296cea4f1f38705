package checkin

// CheckInResult is the domain outcome of a check-in attempt.
type CheckInResult int

const (
	CheckInSuccess CheckInResult = iota
	CheckInParkNotFound
	CheckInDogNotOwnedByUser
	CheckInDistanceTooFar
)

func (r CheckInResult) String() string {
	switch r {
	case CheckInSuccess:
		return "success"
	case CheckInParkNotFound:
		return "park_not_found"
	case CheckInDogNotOwnedByUser:
		return "dog_not_owned_by_user"
	case CheckInDistanceTooFar:
		return "distance_too_far"
	default:
		return "unknown"
	}
}

// CheckOutResult is the domain outcome of a checkout.
type CheckOutResult int

const (
	CheckOutSuccess CheckOutResult = iota
	CheckOutNotFound
)

func (r CheckOutResult) String() string {
	switch r {
	case CheckOutSuccess:
		return "success"
	case CheckOutNotFound:
		return "checkin_not_found"
	default:
		return "unknown"
	}
}
