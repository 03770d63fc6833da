package handlers

import (
	"log"
	"net/http"
	"time"

	"feedback-backend/internal/authz"
	"feedback-backend/internal/middleware"
	"feedback-backend/internal/repository"
)

type NotificationHandler struct {
	notifications repository.NotificationStore
	users         repository.UserStore
	authz         *authz.Service
}

func NewNotificationHandler(
	notifications repository.NotificationStore,
	users repository.UserStore,
	authzService *authz.Service,
) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		users:         users,
		authz:         authzService,
	}
}

type notificationView struct {
	ID        string    `json:"id"`
	To        string    `json:"to"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// --- GET /notifications ---

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	isManager, err := h.authz.IsManager(r.Context(), identity.UID)
	if err != nil {
		log.Printf("Error checking role: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var uids []string
	if isManager {
		// Managers get the notifications addressed to their team members,
		// not their own. Acknowledge/comment/request notifications are
		// addressed to the manager directly, so this branch surfaces a
		// different set than the else branch would — kept as-is pending
		// product clarification.
		uids, err = h.users.ListTeamUIDs(r.Context(), identity.UID)
		if err != nil {
			log.Printf("Error listing team: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
	} else {
		uids = []string{identity.UID}
	}

	notifications, err := h.notifications.ListFor(r.Context(), uids)
	if err != nil {
		log.Printf("Error listing notifications: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	result := make([]notificationView, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, notificationView{
			ID:        n.ID.Hex(),
			To:        n.To,
			Message:   n.Message,
			Timestamp: n.Timestamp,
			Read:      n.Read,
		})
	}
	writeJSON(w, http.StatusOK, result)
}

// --- PUT /notifications/mark-read ---

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	count, err := h.notifications.MarkAllRead(r.Context(), identity.UID)
	if err != nil {
		log.Printf("Error marking notifications read: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "success",
		"updated_count": count,
	})
}
