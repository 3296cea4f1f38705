package dynamo

// DynamoDB attribute names used in expressions across repos.
const (
	fieldCheckInID = "checkin_id"
	fieldIsActive  = "is_active"
	fieldLeaveTime = "leave_time"
	fieldUpdatedAt = "updated_at"
	fieldPairKey   = "pair_key"
	fieldParkID    = "park_id"
	fieldPlaceID   = "place_id"
	fieldFollowers = "followers"
	fieldFollowing = "following"
	fieldRating    = "rating"
)
