package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"masterokBack/internal/models"
	"masterokBack/internal/services"
)

type ReviewHandler struct {
	Service *services.ReviewService
}

func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	customerID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	requestID, err := strconv.Atoi(r.URL.Query().Get(":request_id"))
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}
	var review models.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	review.RepairRequestID = requestID
	review.CustomerID = customerID

	saved, err := h.Service.CreateReview(r.Context(), review)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidRating):
			http.Error(w, "Rating must be between 1 and 5", http.StatusBadRequest)
		case errors.Is(err, models.ErrRepairRequestNotFound):
			http.Error(w, "Request not found", http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, models.ErrRequestNotCompleted):
			http.Error(w, "Request is not completed yet", http.StatusConflict)
		case errors.Is(err, models.ErrNoAcceptedResponse):
			http.Error(w, "Request has no accepted worker", http.StatusConflict)
		default:
			log.Printf("CreateReview error: %v", err)
			http.Error(w, "Failed to create review", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(saved)
}

func (h *ReviewHandler) GetWorkerReviews(w http.ResponseWriter, r *http.Request) {
	workerID, err := strconv.Atoi(r.URL.Query().Get(":worker_id"))
	if err != nil {
		http.Error(w, "Invalid worker ID", http.StatusBadRequest)
		return
	}
	reviews, err := h.Service.GetWorkerReviews(r.Context(), workerID)
	if err != nil {
		log.Printf("GetWorkerReviews error: %v", err)
		http.Error(w, "Failed to get reviews", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(reviews)
}
