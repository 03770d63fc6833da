package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Feedback is authored by a manager (from) about an employee (to).
// Authorship is fixed at creation and never transferred.
type Feedback struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"-"`
	From         string        `bson:"from" json:"from"`
	To           string        `bson:"to" json:"to"`
	Strengths    string        `bson:"strengths" json:"strengths"`
	Improvements string        `bson:"improvements" json:"improvements"`
	Sentiment    string        `bson:"sentiment" json:"sentiment"`
	Date         string        `bson:"date" json:"date"`
	Acknowledged bool          `bson:"acknowledged,omitempty" json:"acknowledged"`
	Comments     []Comment     `bson:"comments,omitempty" json:"comments,omitempty"`
}

// Comment is embedded in a feedback document, append-only.
type Comment struct {
	By   string    `bson:"by" json:"by"`
	Text string    `bson:"text" json:"text"`
	Date time.Time `bson:"date" json:"date"`
}
