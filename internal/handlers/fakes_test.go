package handlers_test

import (
	"context"
	"sort"
	"sync"

	"feedback-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// In-memory fakes implementing the repository store interfaces. Guarded by a
// mutex because notification emails are sent from a background goroutine.

type fakeUserStore struct {
	mu    sync.Mutex
	users []models.User
}

func (f *fakeUserStore) add(users ...models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = bson.NewObjectID()
		}
		f.users = append(f.users, u)
	}
}

func (f *fakeUserStore) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.UID == uid {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = bson.NewObjectID()
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserStore) ListManagers(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var managers []models.User
	for _, u := range f.users {
		if u.Role == models.RoleManager {
			managers = append(managers, u)
		}
	}
	return managers, nil
}

func (f *fakeUserStore) ListEmployeesOf(ctx context.Context, managerUID string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var employees []models.User
	for _, u := range f.users {
		if u.Role == models.RoleEmployee && u.Manager == managerUID {
			employees = append(employees, u)
		}
	}
	return employees, nil
}

func (f *fakeUserStore) ListTeamUIDs(ctx context.Context, managerUID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var uids []string
	for _, u := range f.users {
		if u.Manager == managerUID {
			uids = append(uids, u.UID)
		}
	}
	return uids, nil
}

type fakeFeedbackStore struct {
	mu        sync.Mutex
	feedbacks []models.Feedback
}

func (f *fakeFeedbackStore) Create(ctx context.Context, feedback *models.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	feedback.ID = bson.NewObjectID()
	f.feedbacks = append(f.feedbacks, *feedback)
	return nil
}

func (f *fakeFeedbackStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fb := range f.feedbacks {
		if fb.ID == id {
			feedback := fb
			return &feedback, nil
		}
	}
	return nil, nil
}

func (f *fakeFeedbackStore) ListTo(ctx context.Context, uid string) ([]models.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Feedback
	for _, fb := range f.feedbacks {
		if fb.To == uid {
			result = append(result, fb)
		}
	}
	return result, nil
}

func (f *fakeFeedbackStore) ListFrom(ctx context.Context, uid string) ([]models.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Feedback
	for _, fb := range f.feedbacks {
		if fb.From == uid {
			result = append(result, fb)
		}
	}
	return result, nil
}

func (f *fakeFeedbackStore) UpdateFields(ctx context.Context, id bson.ObjectID, fields map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.feedbacks {
		if f.feedbacks[i].ID == id {
			if v, ok := fields["strengths"]; ok {
				f.feedbacks[i].Strengths = v
			}
			if v, ok := fields["improvements"]; ok {
				f.feedbacks[i].Improvements = v
			}
			if v, ok := fields["sentiment"]; ok {
				f.feedbacks[i].Sentiment = v
			}
		}
	}
	return nil
}

func (f *fakeFeedbackStore) SetAcknowledged(ctx context.Context, id bson.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.feedbacks {
		if f.feedbacks[i].ID == id {
			f.feedbacks[i].Acknowledged = true
		}
	}
	return nil
}

func (f *fakeFeedbackStore) AppendComment(ctx context.Context, id bson.ObjectID, comment models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.feedbacks {
		if f.feedbacks[i].ID == id {
			f.feedbacks[i].Comments = append(f.feedbacks[i].Comments, comment)
		}
	}
	return nil
}

func (f *fakeFeedbackStore) get(id bson.ObjectID) models.Feedback {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fb := range f.feedbacks {
		if fb.ID == id {
			return fb
		}
	}
	return models.Feedback{}
}

type fakeNotificationStore struct {
	mu            sync.Mutex
	notifications []models.Notification
}

func (f *fakeNotificationStore) Create(ctx context.Context, notification *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	notification.ID = bson.NewObjectID()
	f.notifications = append(f.notifications, *notification)
	return nil
}

func (f *fakeNotificationStore) ListFor(ctx context.Context, uids []string) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	targets := make(map[string]struct{}, len(uids))
	for _, uid := range uids {
		targets[uid] = struct{}{}
	}
	var result []models.Notification
	for _, n := range f.notifications {
		if _, ok := targets[n.To]; ok {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	return result, nil
}

func (f *fakeNotificationStore) MarkAllRead(ctx context.Context, uid string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for i := range f.notifications {
		if f.notifications[i].To == uid && !f.notifications[i].Read {
			f.notifications[i].Read = true
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) countFor(uid string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, n := range f.notifications {
		if n.To == uid {
			count++
		}
	}
	return count
}
