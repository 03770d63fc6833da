package repository

import (
	"context"

	"feedback-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type NotificationRepo struct {
	collection *mongo.Collection
}

func NewNotificationRepo(db *mongo.Database) *NotificationRepo {
	return &NotificationRepo{
		collection: db.Collection("notifications"),
	}
}

func (r *NotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	result, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return err
	}
	notification.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// ListFor returns notifications addressed to any of the given uids, newest
// first.
func (r *NotificationRepo) ListFor(ctx context.Context, uids []string) ([]models.Notification, error) {
	if uids == nil {
		uids = []string{} // a nil slice marshals to null, which $in rejects
	}
	cursor, err := r.collection.Find(ctx, bson.M{"to": bson.M{"$in": uids}},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkAllRead flips every unread notification for the uid and reports how
// many documents actually changed.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, uid string) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"to": uid, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// EnsureIndexes creates necessary indexes for the notifications collection
func (r *NotificationRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "to", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	return err
}
