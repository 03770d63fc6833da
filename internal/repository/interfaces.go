package repository

import (
	"context"

	"feedback-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Store interfaces decouple handlers from MongoDB. Lookups return (nil, nil)
// when no document matches.

type UserStore interface {
	FindByUID(ctx context.Context, uid string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	ListManagers(ctx context.Context) ([]models.User, error)
	ListEmployeesOf(ctx context.Context, managerUID string) ([]models.User, error)
	ListTeamUIDs(ctx context.Context, managerUID string) ([]string, error)
}

type FeedbackStore interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Feedback, error)
	ListTo(ctx context.Context, uid string) ([]models.Feedback, error)
	ListFrom(ctx context.Context, uid string) ([]models.Feedback, error)
	UpdateFields(ctx context.Context, id bson.ObjectID, fields map[string]string) error
	SetAcknowledged(ctx context.Context, id bson.ObjectID) error
	AppendComment(ctx context.Context, id bson.ObjectID, comment models.Comment) error
}

type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListFor(ctx context.Context, uids []string) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, uid string) (int64, error)
}
