package domain

import "time"

// ActivityAction names the kind of mutation applied to a listing.
type ActivityAction string

const (
	ActivityCreated ActivityAction = "created"
	ActivityUpdated ActivityAction = "updated"
	ActivityDeleted ActivityAction = "deleted"
)

// ListingActivity is one entry of the listing audit trail.
type ListingActivity struct {
	ListingID  string         `json:"listing_id" bson:"listing_id"`
	ActorID    string         `json:"actor_id" bson:"actor_id"`
	Action     ActivityAction `json:"action" bson:"action"`
	Fields     []string       `json:"fields,omitempty" bson:"fields,omitempty"`
	OccurredAt time.Time      `json:"occurred_at" bson:"occurred_at"`
}
