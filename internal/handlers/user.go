package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"feedback-backend/internal/authz"
	"feedback-backend/internal/middleware"
	"feedback-backend/internal/models"
	"feedback-backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type UserHandler struct {
	users repository.UserStore
	authz *authz.Service
}

func NewUserHandler(users repository.UserStore, authzService *authz.Service) *UserHandler {
	return &UserHandler{
		users: users,
		authz: authzService,
	}
}

// --- Request / Response types ---

type RegisterRequest struct {
	UID     string `json:"uid" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Role    string `json:"role" validate:"required"`
	Manager string `json:"manager" validate:"required_if=Role employee"`
}

type userSummary struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	Designation string `json:"designation,omitempty"`
}

// --- POST /api/register ---

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				if fe.Field() == "Manager" {
					writeError(w, http.StatusBadRequest, "Employee must specify a manager")
					return
				}
			}
		}
		writeError(w, http.StatusBadRequest, "Missing required user data")
		return
	}

	existing, err := h.users.FindByUID(r.Context(), req.UID)
	if err != nil {
		log.Printf("Error checking existing user: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "User already registered")
		return
	}

	user := &models.User{
		UID:   req.UID,
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}
	if req.Role == models.RoleEmployee {
		user.Manager = req.Manager
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		log.Printf("Error creating user: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "User registered",
	})
}

// --- GET /api/managers ---
// Open directory of managers so employees can pick one at registration time.

func (h *UserHandler) ListManagers(w http.ResponseWriter, r *http.Request) {
	managers, err := h.users.ListManagers(r.Context())
	if err != nil {
		log.Printf("Error listing managers: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	result := make([]userSummary, 0, len(managers))
	for _, m := range managers {
		result = append(result, userSummary{UID: m.UID, Name: m.Name})
	}
	writeJSON(w, http.StatusOK, result)
}

// --- GET /profile ---

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	user, err := h.users.FindByUID(r.Context(), identity.UID)
	if err != nil {
		log.Printf("Error finding user: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if user == nil {
		// First authenticated access: self-provision an employee profile
		// from the identity claims.
		name := identity.Name
		if name == "" {
			name = "Unknown"
		}
		user = &models.User{
			UID:    identity.UID,
			Name:   name,
			Email:  identity.Email,
			Role:   models.RoleEmployee,
			Joined: time.Now().Format("2006-01-02"),
		}
		if err := h.users.Create(r.Context(), user); err != nil {
			log.Printf("Error creating user profile: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to create profile")
			return
		}
	}

	writeJSON(w, http.StatusOK, user)
}

// --- GET /api/user/{uid} ---

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	user, err := h.users.FindByUID(r.Context(), uid)
	if err != nil {
		log.Printf("Error finding user: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// --- GET /employees ---

func (h *UserHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	if err := h.authz.RequireManager(r.Context(), identity.UID); err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			writeError(w, http.StatusForbidden, "Only managers can access employee list")
			return
		}
		log.Printf("Error checking role: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	employees, err := h.users.ListEmployeesOf(r.Context(), identity.UID)
	if err != nil {
		log.Printf("Error listing employees: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	result := make([]userSummary, 0, len(employees))
	for _, e := range employees {
		result = append(result, userSummary{UID: e.UID, Name: e.Name, Designation: e.Designation})
	}
	writeJSON(w, http.StatusOK, result)
}
