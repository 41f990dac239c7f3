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

type RepairRequestHandler struct {
	Service *services.RepairRequestService
}

func requestUserID(r *http.Request) (int, bool) {
	userID, ok := r.Context().Value("user_id").(int)
	return userID, ok
}

func (h *RepairRequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req models.RepairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.CreatedBy = userID

	created, err := h.Service.CreateRequest(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrMissingFields):
			http.Error(w, "Missing required fields", http.StatusBadRequest)
		case errors.Is(err, models.ErrUnknownDeviceType):
			http.Error(w, "Unknown device type", http.StatusBadRequest)
		default:
			log.Printf("CreateRequest error: %v", err)
			http.Error(w, "Failed to create request", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *RepairRequestHandler) GetRequestByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}
	req, err := h.Service.GetRequest(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrRepairRequestNotFound) {
			http.Error(w, "Request not found", http.StatusNotFound)
			return
		}
		log.Printf("GetRequestByID error: %v", err)
		http.Error(w, "Failed to get request", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(req)
}

func (h *RepairRequestHandler) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	requests, err := h.Service.GetUserRequests(r.Context(), userID)
	if err != nil {
		log.Printf("GetMyRequests error: %v", err)
		http.Error(w, "Failed to get requests", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(requests)
}

func (h *RepairRequestHandler) SearchRequests(w http.ResponseWriter, r *http.Request) {
	filter := models.RepairRequestFilter{
		SearchTerm: r.URL.Query().Get("q"),
		DeviceType: r.URL.Query().Get("device_type"),
		Status:     r.URL.Query().Get("status"),
	}
	requests, err := h.Service.SearchRequests(r.Context(), filter)
	if err != nil {
		log.Printf("SearchRequests error: %v", err)
		http.Error(w, "Failed to search requests", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(requests)
}

func (h *RepairRequestHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.Service.AvailableFilters())
}

func (h *RepairRequestHandler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}
	var req models.RepairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.ID = id

	updated, err := h.Service.UpdateRequest(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRepairRequestNotFound):
			http.Error(w, "Request not found", http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, models.ErrInvalidTransition):
			http.Error(w, "Request can no longer be edited", http.StatusConflict)
		case errors.Is(err, models.ErrUnknownDeviceType):
			http.Error(w, "Unknown device type", http.StatusBadRequest)
		default:
			log.Printf("UpdateRequest error: %v", err)
			http.Error(w, "Failed to update request", http.StatusInternalServerError)
		}
		return
	}
	json.NewEncoder(w).Encode(updated)
}

func (h *RepairRequestHandler) CompleteRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}
	var body struct {
		FinalPrice *float64 `json:"final_price"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&body)
	}

	req, err := h.Service.CompleteRequest(r.Context(), userID, id, body.FinalPrice)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRepairRequestNotFound):
			http.Error(w, "Request not found", http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, models.ErrRequestConflict):
			http.Error(w, "Request is not active", http.StatusConflict)
		default:
			log.Printf("CompleteRequest error: %v", err)
			http.Error(w, "Failed to complete request", http.StatusInternalServerError)
		}
		return
	}
	json.NewEncoder(w).Encode(req)
}

func (h *RepairRequestHandler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}
	req, err := h.Service.CancelRequest(r.Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRepairRequestNotFound):
			http.Error(w, "Request not found", http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, models.ErrRequestConflict):
			http.Error(w, "Request already taken", http.StatusConflict)
		default:
			log.Printf("CancelRequest error: %v", err)
			http.Error(w, "Failed to cancel request", http.StatusInternalServerError)
		}
		return
	}
	json.NewEncoder(w).Encode(req)
}

func (h *RepairRequestHandler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}
	if err := h.Service.DeleteRequest(r.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, models.ErrRepairRequestNotFound):
			http.Error(w, "Request not found", http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			log.Printf("DeleteRequest error: %v", err)
			http.Error(w, "Failed to delete request", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *RepairRequestHandler) SetFinalPrice(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}
	var body struct {
		FinalPrice float64 `json:"final_price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.FinalPrice <= 0 {
		http.Error(w, "Invalid final price", http.StatusBadRequest)
		return
	}
	if err := h.Service.SetFinalPrice(r.Context(), userID, id, body.FinalPrice); err != nil {
		switch {
		case errors.Is(err, models.ErrRepairRequestNotFound):
			http.Error(w, "Request not found", http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, models.ErrRequestNotCompleted):
			http.Error(w, "Request is not completed", http.StatusConflict)
		default:
			log.Printf("SetFinalPrice error: %v", err)
			http.Error(w, "Failed to set final price", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusOK)
}
