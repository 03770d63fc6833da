package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"feedback-backend/internal/authz"
	"feedback-backend/internal/mailer"
	"feedback-backend/internal/middleware"
	"feedback-backend/internal/models"
	"feedback-backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type FeedbackHandler struct {
	feedbacks     repository.FeedbackStore
	users         repository.UserStore
	notifications repository.NotificationStore
	authz         *authz.Service
	mailer        mailer.Mailer
}

func NewFeedbackHandler(
	feedbacks repository.FeedbackStore,
	users repository.UserStore,
	notifications repository.NotificationStore,
	authzService *authz.Service,
	m mailer.Mailer,
) *FeedbackHandler {
	return &FeedbackHandler{
		feedbacks:     feedbacks,
		users:         users,
		notifications: notifications,
		authz:         authzService,
		mailer:        m,
	}
}

// --- Request / Response types ---

type SubmitFeedbackRequest struct {
	To           string `json:"to" validate:"required"`
	Strengths    string `json:"strengths" validate:"required"`
	Improvements string `json:"improvements" validate:"required"`
	Sentiment    string `json:"sentiment" validate:"required"`
	Date         string `json:"date"`
}

// UpdateFeedbackRequest uses pointer fields so a partial update only touches
// what the caller sent. Unknown JSON keys are dropped by decoding.
type UpdateFeedbackRequest struct {
	Strengths    *string `json:"strengths"`
	Improvements *string `json:"improvements"`
	Sentiment    *string `json:"sentiment"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

type commentView struct {
	By     string    `json:"by"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
	ByName string    `json:"byName,omitempty"`
}

type feedbackView struct {
	ID           string        `json:"_id"`
	From         string        `json:"from"`
	To           string        `json:"to"`
	Strengths    string        `json:"strengths"`
	Improvements string        `json:"improvements"`
	Sentiment    string        `json:"sentiment"`
	Date         string        `json:"date"`
	Acknowledged bool          `json:"acknowledged"`
	Comments     []commentView `json:"comments,omitempty"`
	FromName     string        `json:"fromName,omitempty"`
	ToName       string        `json:"toName,omitempty"`
}

func newFeedbackView(f models.Feedback) feedbackView {
	view := feedbackView{
		ID:           f.ID.Hex(),
		From:         f.From,
		To:           f.To,
		Strengths:    f.Strengths,
		Improvements: f.Improvements,
		Sentiment:    f.Sentiment,
		Date:         f.Date,
		Acknowledged: f.Acknowledged,
	}
	for _, c := range f.Comments {
		view.Comments = append(view.Comments, commentView{By: c.By, Text: c.Text, Date: c.Date})
	}
	return view
}

// --- POST /feedback ---

func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing feedback fields")
		return
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	// Authorship is always the authenticated caller, never the payload.
	feedback := &models.Feedback{
		From:         identity.UID,
		To:           req.To,
		Strengths:    req.Strengths,
		Improvements: req.Improvements,
		Sentiment:    req.Sentiment,
		Date:         date,
	}

	if err := h.feedbacks.Create(r.Context(), feedback); err != nil {
		log.Printf("Error creating feedback: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to submit feedback")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// --- GET /feedbacks ---

func (h *FeedbackHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	feedbacks, err := h.feedbacks.ListTo(r.Context(), identity.UID)
	if err != nil {
		log.Printf("Error listing feedbacks: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	result := make([]feedbackView, 0, len(feedbacks))
	for _, f := range feedbacks {
		view := newFeedbackView(f)
		view.FromName, err = h.displayName(r.Context(), f.From)
		if err != nil {
			log.Printf("Error resolving author name: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		result = append(result, view)
	}
	writeJSON(w, http.StatusOK, result)
}

// --- GET /api/feedbacks/from/{uid} ---

func (h *FeedbackHandler) ListAuthoredBy(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	if err := h.authz.RequireManager(r.Context(), identity.UID); err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			writeError(w, http.StatusForbidden, "Only managers can view this data")
			return
		}
		log.Printf("Error checking role: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	uid := chi.URLParam(r, "uid")
	feedbacks, err := h.feedbacks.ListFrom(r.Context(), uid)
	if err != nil {
		log.Printf("Error listing feedbacks: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	result := make([]feedbackView, 0, len(feedbacks))
	for _, f := range feedbacks {
		view := newFeedbackView(f)
		view.ToName, err = h.displayName(r.Context(), f.To)
		if err != nil {
			log.Printf("Error resolving recipient name: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		for i := range view.Comments {
			view.Comments[i].ByName, err = h.displayName(r.Context(), view.Comments[i].By)
			if err != nil {
				log.Printf("Error resolving commenter name: %v", err)
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}
		}
		result = append(result, view)
	}
	writeJSON(w, http.StatusOK, result)
}

// --- PUT /feedback/{id} ---

func (h *FeedbackHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	if err := h.authz.RequireManager(r.Context(), identity.UID); err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			writeError(w, http.StatusForbidden, "Only managers can update feedback")
			return
		}
		log.Printf("Error checking role: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	feedback, ok := h.fetchFeedback(w, r)
	if !ok {
		return
	}

	if err := h.authz.CanUpdate(identity.UID, feedback); err != nil {
		writeError(w, http.StatusForbidden, "You can only update your own feedback")
		return
	}

	var req UpdateFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := map[string]string{}
	if req.Strengths != nil {
		fields["strengths"] = *req.Strengths
	}
	if req.Improvements != nil {
		fields["improvements"] = *req.Improvements
	}
	if req.Sentiment != nil {
		fields["sentiment"] = *req.Sentiment
	}
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "No valid fields to update")
		return
	}

	if err := h.feedbacks.UpdateFields(r.Context(), feedback.ID, fields); err != nil {
		log.Printf("Error updating feedback: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update feedback")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Feedback updated successfully",
	})
}

// --- PUT /feedback/{id}/acknowledge ---

func (h *FeedbackHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	feedback, ok := h.fetchFeedback(w, r)
	if !ok {
		return
	}

	if err := h.authz.CanRespond(identity.UID, feedback); err != nil {
		writeError(w, http.StatusForbidden, "You can only acknowledge feedback given to you")
		return
	}

	// Re-acknowledging is allowed; the flag set is idempotent but each call
	// notifies the author again (at-least-once).
	if err := h.feedbacks.SetAcknowledged(r.Context(), feedback.ID); err != nil {
		log.Printf("Error acknowledging feedback: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to acknowledge feedback")
		return
	}

	name, err := h.displayName(r.Context(), identity.UID)
	if err != nil {
		log.Printf("Error resolving employee name: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if err := h.notify(r.Context(), feedback.From, fmt.Sprintf("%s acknowledged your feedback.", name)); err != nil {
		log.Printf("Error creating notification: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to notify manager")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Feedback acknowledged and manager notified",
	})
}

// --- POST /feedback/{id}/comment ---

func (h *FeedbackHandler) Comment(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "Comment text required")
		return
	}

	feedback, ok := h.fetchFeedback(w, r)
	if !ok {
		return
	}

	if err := h.authz.CanRespond(identity.UID, feedback); err != nil {
		writeError(w, http.StatusForbidden, "You can only comment on feedback given to you")
		return
	}

	comment := models.Comment{
		By:   identity.UID,
		Text: text,
		Date: time.Now().UTC(),
	}
	if err := h.feedbacks.AppendComment(r.Context(), feedback.ID, comment); err != nil {
		log.Printf("Error appending comment: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to add comment")
		return
	}

	name, err := h.displayName(r.Context(), identity.UID)
	if err != nil {
		log.Printf("Error resolving commenter name: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if err := h.notify(r.Context(), feedback.From, fmt.Sprintf("%s commented on your feedback.", name)); err != nil {
		log.Printf("Error creating notification: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to notify manager")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// --- POST /feedback/request ---

func (h *FeedbackHandler) RequestFeedback(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	employee, err := h.users.FindByUID(r.Context(), identity.UID)
	if err != nil {
		log.Printf("Error finding user: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if employee == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if employee.Manager == "" {
		writeError(w, http.StatusBadRequest, "No manager assigned")
		return
	}

	name := employee.Name
	if name == "" {
		name = "An employee"
	}
	if err := h.notify(r.Context(), employee.Manager, fmt.Sprintf("%s has requested feedback.", name)); err != nil {
		log.Printf("Error creating notification: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to notify manager")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Feedback request sent to manager",
	})
}

// --- Helpers ---

// fetchFeedback resolves the {id} path param. A malformed id names a record
// that cannot exist, so it maps to 404 like an unknown one.
func (h *FeedbackHandler) fetchFeedback(w http.ResponseWriter, r *http.Request) (*models.Feedback, bool) {
	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Feedback not found")
		return nil, false
	}

	feedback, err := h.feedbacks.FindByID(r.Context(), id)
	if err != nil {
		log.Printf("Error finding feedback: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	if feedback == nil {
		writeError(w, http.StatusNotFound, "Feedback not found")
		return nil, false
	}
	return feedback, true
}

// displayName resolves a uid to the stored name, falling back to the raw uid
// when no user record exists.
func (h *FeedbackHandler) displayName(ctx context.Context, uid string) (string, error) {
	user, err := h.users.FindByUID(ctx, uid)
	if err != nil {
		return "", err
	}
	if user == nil {
		return uid, nil
	}
	return user.Name, nil
}

// notify inserts the notification document, then emails the recipient from a
// background goroutine. The document is the record of truth; email delivery
// is best-effort.
func (h *FeedbackHandler) notify(ctx context.Context, to, message string) error {
	notification := &models.Notification{
		To:        to,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Read:      false,
	}
	if err := h.notifications.Create(ctx, notification); err != nil {
		return err
	}

	go func() {
		ctx := context.Background()
		recipient, err := h.users.FindByUID(ctx, to)
		if err != nil || recipient == nil || recipient.Email == "" {
			return
		}
		html := fmt.Sprintf("<p>%s</p>", message)
		if err := h.mailer.Send(ctx, recipient.Email, "You have a new notification", html); err != nil {
			log.Printf("Error sending notification email: %v", err)
		}
	}()

	return nil
}
