package repository

import (
	"context"

	"feedback-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type FeedbackRepo struct {
	collection *mongo.Collection
}

func NewFeedbackRepo(db *mongo.Database) *FeedbackRepo {
	return &FeedbackRepo{
		collection: db.Collection("feedbacks"),
	}
}

func (r *FeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	result, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		return err
	}
	feedback.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *FeedbackRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Feedback, error) {
	var feedback models.Feedback
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&feedback)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &feedback, nil
}

func (r *FeedbackRepo) ListTo(ctx context.Context, uid string) ([]models.Feedback, error) {
	return r.list(ctx, bson.M{"to": uid})
}

func (r *FeedbackRepo) ListFrom(ctx context.Context, uid string) ([]models.Feedback, error) {
	return r.list(ctx, bson.M{"from": uid})
}

func (r *FeedbackRepo) list(ctx context.Context, filter bson.M) ([]models.Feedback, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var feedbacks []models.Feedback
	if err := cursor.All(ctx, &feedbacks); err != nil {
		return nil, err
	}
	return feedbacks, nil
}

// UpdateFields applies a partial $set; callers are responsible for
// whitelisting the keys.
func (r *FeedbackRepo) UpdateFields(ctx context.Context, id bson.ObjectID, fields map[string]string) error {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (r *FeedbackRepo) SetAcknowledged(ctx context.Context, id bson.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"acknowledged": true},
	})
	return err
}

// AppendComment pushes onto the embedded comments array; the store preserves
// insertion order.
func (r *FeedbackRepo) AppendComment(ctx context.Context, id bson.ObjectID, comment models.Comment) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"comments": comment},
	})
	return err
}

// EnsureIndexes creates necessary indexes for the feedbacks collection
func (r *FeedbackRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "from", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "to", Value: 1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
