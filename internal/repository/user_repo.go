package repository

import (
	"context"

	"feedback-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type UserRepo struct {
	collection *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{
		collection: db.Collection("users"),
	}
}

func (r *UserRepo) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"uid": uid}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	user.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *UserRepo) ListManagers(ctx context.Context) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"role": models.RoleManager})
	if err != nil {
		return nil, err
	}
	var managers []models.User
	if err := cursor.All(ctx, &managers); err != nil {
		return nil, err
	}
	return managers, nil
}

func (r *UserRepo) ListEmployeesOf(ctx context.Context, managerUID string) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"role":    models.RoleEmployee,
		"manager": managerUID,
	})
	if err != nil {
		return nil, err
	}
	var employees []models.User
	if err := cursor.All(ctx, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// ListTeamUIDs returns the uids of every user whose manager field points at
// the given manager, regardless of role.
func (r *UserRepo) ListTeamUIDs(ctx context.Context, managerUID string) ([]string, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"manager": managerUID},
		options.Find().SetProjection(bson.M{"uid": 1}))
	if err != nil {
		return nil, err
	}
	var members []models.User
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	uids := make([]string, 0, len(members))
	for _, m := range members {
		uids = append(uids, m.UID)
	}
	return uids, nil
}

// EnsureIndexes creates necessary indexes for the users collection
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "uid", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
