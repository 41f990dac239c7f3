package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"masterokBack/internal/models"
	"masterokBack/internal/services"
)

type PriceHandler struct {
	Service *services.PriceService
}

func (h *PriceHandler) PredictPrice(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DeviceType         string `json:"device_type"`
		ProblemDescription string `json:"problem_description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	prediction, err := h.Service.PredictPrice(r.Context(), body.DeviceType, body.ProblemDescription)
	if err != nil {
		if errors.Is(err, models.ErrMissingFields) {
			http.Error(w, "Device type and description required", http.StatusBadRequest)
			return
		}
		log.Printf("PredictPrice error: %v", err)
		http.Error(w, "Failed to predict price", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(prediction)
}

func (h *PriceHandler) AnalyzeComplexity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProblemDescription string `json:"problem_description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	complexity, err := h.Service.AnalyzeComplexity(r.Context(), body.ProblemDescription)
	if err != nil {
		if errors.Is(err, models.ErrMissingFields) {
			http.Error(w, "Description required", http.StatusBadRequest)
			return
		}
		log.Printf("AnalyzeComplexity error: %v", err)
		http.Error(w, "Failed to analyze complexity", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(complexity)
}

func (h *PriceHandler) DataStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.DataStats(r.Context())
	if err != nil {
		log.Printf("DataStats error: %v", err)
		http.Error(w, "Failed to get data stats", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(stats)
}
