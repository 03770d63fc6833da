package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// User is keyed by the uid issued by the identity provider, not by the
// store-generated _id. The _id is never exposed to clients.
type User struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"-"`
	UID         string        `bson:"uid" json:"uid"`
	Name        string        `bson:"name" json:"name"`
	Email       string        `bson:"email" json:"email"`
	Role        string        `bson:"role" json:"role"`
	Manager     string        `bson:"manager,omitempty" json:"manager,omitempty"`
	Joined      string        `bson:"joined,omitempty" json:"joined,omitempty"`
	Designation string        `bson:"designation,omitempty" json:"designation,omitempty"`
}
