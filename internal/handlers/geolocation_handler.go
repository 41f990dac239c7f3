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

type GeolocationHandler struct {
	Service *services.GeolocationService
}

const defaultNearbyRadiusKm = 50.0

func (h *GeolocationHandler) UpdateMyLocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var loc models.UserLocation
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	loc.UserID = userID

	saved, err := h.Service.UpdateUserLocation(r.Context(), loc)
	if err != nil {
		if errors.Is(err, models.ErrMissingFields) {
			http.Error(w, "Coordinates or address required", http.StatusBadRequest)
			return
		}
		log.Printf("UpdateMyLocation error: %v", err)
		http.Error(w, "Failed to update location", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(saved)
}

func (h *GeolocationHandler) GetMyLocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	loc, err := h.Service.GetUserLocation(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			http.Error(w, "Location not set", http.StatusNotFound)
			return
		}
		log.Printf("GetMyLocation error: %v", err)
		http.Error(w, "Failed to get location", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(loc)
}

func (h *GeolocationHandler) DeleteMyLocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.Service.ClearUserLocation(r.Context(), userID); err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			http.Error(w, "Location not set", http.StatusNotFound)
			return
		}
		log.Printf("DeleteMyLocation error: %v", err)
		http.Error(w, "Failed to delete location", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Локация удалена"})
}

func (h *GeolocationHandler) GetNearbyWorkers(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	radiusKm := defaultNearbyRadiusKm
	if raw := r.URL.Query().Get("radius_km"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid radius", http.StatusBadRequest)
			return
		}
		radiusKm = parsed
	}

	workers, err := h.Service.NearbyWorkers(r.Context(), userID, radiusKm)
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			http.Error(w, "Set your location first", http.StatusConflict)
			return
		}
		log.Printf("GetNearbyWorkers error: %v", err)
		http.Error(w, "Failed to find nearby workers", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(workers)
}
