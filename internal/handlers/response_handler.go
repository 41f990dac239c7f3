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

type ResponseHandler struct {
	Service *services.ResponseService
}

func (h *ResponseHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	workerID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	requestID, err := strconv.Atoi(r.URL.Query().Get(":request_id"))
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}
	var resp models.Response
	if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	resp.RepairRequestID = requestID
	resp.WorkerID = workerID

	created, err := h.Service.SubmitResponse(r.Context(), resp)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrMissingFields):
			http.Error(w, "Missing required fields", http.StatusBadRequest)
		case errors.Is(err, models.ErrRepairRequestNotFound):
			http.Error(w, "Request not found", http.StatusNotFound)
		case errors.Is(err, models.ErrOwnRequestResponse):
			http.Error(w, "Cannot respond to your own request", http.StatusForbidden)
		case errors.Is(err, models.ErrAlreadyResponded):
			http.Error(w, "Already responded to this request", http.StatusConflict)
		default:
			log.Printf("SubmitResponse error: %v", err)
			http.Error(w, "Failed to submit response", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *ResponseHandler) AcceptResponse(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	responseID, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "Invalid response ID", http.StatusBadRequest)
		return
	}

	accepted, err := h.Service.AcceptResponse(r.Context(), userID, responseID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrResponseNotFound):
			http.Error(w, "Response not found", http.StatusNotFound)
		case errors.Is(err, models.ErrRepairRequestNotFound):
			http.Error(w, "Request not found", http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, models.ErrRequestConflict):
			http.Error(w, "Another response was already accepted", http.StatusConflict)
		default:
			log.Printf("AcceptResponse error: %v", err)
			http.Error(w, "Failed to accept response", http.StatusInternalServerError)
		}
		return
	}
	json.NewEncoder(w).Encode(accepted)
}

func (h *ResponseHandler) GetResponsesForRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	requestID, err := strconv.Atoi(r.URL.Query().Get(":request_id"))
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}
	responses, err := h.Service.GetResponsesForRequest(r.Context(), userID, requestID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRepairRequestNotFound):
			http.Error(w, "Request not found", http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			log.Printf("GetResponsesForRequest error: %v", err)
			http.Error(w, "Failed to get responses", http.StatusInternalServerError)
		}
		return
	}
	json.NewEncoder(w).Encode(responses)
}

func (h *ResponseHandler) GetMyResponses(w http.ResponseWriter, r *http.Request) {
	workerID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	responses, err := h.Service.GetWorkerResponses(r.Context(), workerID)
	if err != nil {
		log.Printf("GetMyResponses error: %v", err)
		http.Error(w, "Failed to get responses", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(responses)
}
