package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Notification is created as a side effect of acknowledge/comment/request
// actions and never deleted.
type Notification struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"-"`
	To        string        `bson:"to" json:"to"`
	Message   string        `bson:"message" json:"message"`
	Timestamp time.Time     `bson:"timestamp" json:"timestamp"`
	Read      bool          `bson:"read" json:"read"`
}
