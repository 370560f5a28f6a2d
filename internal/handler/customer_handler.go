// internal/handler/customer_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	appErrors "github.com/unclebandit/customer-roster/internal/errors"
	"github.com/unclebandit/customer-roster/internal/model"
	"github.com/unclebandit/customer-roster/internal/repository"
)

// CustomerHandler holds the dependencies for customer-related HTTP handlers
type CustomerHandler struct {
	Repo repository.CustomerRepositoryInterface
	Log  logrus.FieldLogger
}

func NewCustomerHandler(repo repository.CustomerRepositoryInterface, log logrus.FieldLogger) *CustomerHandler {
	return &CustomerHandler{Repo: repo, Log: log}
}

// Register mounts the customer routes on r.
func (h *CustomerHandler) Register(r chi.Router) {
	r.Get("/customers", h.ListCustomersHandler)
	r.Post("/customers", h.CreateCustomerHandler)
	r.Get("/customers/count", h.CountCustomersHandler)
}

// CreateCustomerHandler inserts one customer; the id in the body, if any, is ignored
func (h *CustomerHandler) CreateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FirstName   string     `json:"first_name"`
		LastName    string     `json:"last_name"`
		DateOfBirth model.Date `json:"date_of_birth"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(payload.FirstName) == "" || strings.TrimSpace(payload.LastName) == "" || payload.DateOfBirth.IsZero() {
		http.Error(w, "first_name, last_name and date_of_birth are required", http.StatusBadRequest)
		return
	}

	customer := &model.Customer{
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		DateOfBirth: payload.DateOfBirth,
	}

	if err := h.Repo.Insert(r.Context(), customer); err != nil {
		h.writeError(w, "failed to create customer", err)
		return
	}

	h.Log.WithField("customer_id", customer.ID).Info("✅ Customer created")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(customer)
}

// ListCustomersHandler returns every row of the table
func (h *CustomerHandler) ListCustomersHandler(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Repo.ListAll(r.Context())
	if err != nil {
		h.writeError(w, "failed to fetch customers", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": customers,
	})
}

func (h *CustomerHandler) CountCustomersHandler(w http.ResponseWriter, r *http.Request) {
	total, err := h.Repo.Count(r.Context())
	if err != nil {
		h.writeError(w, "failed to count customers", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"count": total})
}

func (h *CustomerHandler) writeError(w http.ResponseWriter, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case appErrors.IsConnection(err):
		status = http.StatusServiceUnavailable
	case appErrors.IsConstraint(err):
		status = http.StatusConflict
	}
	h.Log.WithError(err).WithField("status", status).Error("❌ " + msg)
	http.Error(w, msg+": "+err.Error(), status)
}
