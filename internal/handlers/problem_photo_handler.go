package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"masterokBack/internal/models"
	"masterokBack/internal/services"
)

type ProblemPhotoHandler struct {
	Service *services.ProblemPhotoService
}

const maxPhotoSize = 10 << 20 // 10 MB

func (h *ProblemPhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
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

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "Photo file missing", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoSize))
	if err != nil {
		http.Error(w, "Failed to read file", http.StatusBadRequest)
		return
	}
	description := r.FormValue("description")

	photo, err := h.Service.AttachPhoto(r.Context(), userID, requestID, data, header.Filename, description)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrMissingFields):
			http.Error(w, "Empty photo", http.StatusBadRequest)
		case errors.Is(err, models.ErrRepairRequestNotFound):
			http.Error(w, "Request not found", http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			log.Printf("UploadPhoto error: %v", err)
			http.Error(w, "Failed to upload photo", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(photo)
}

func (h *ProblemPhotoHandler) GetRequestPhotos(w http.ResponseWriter, r *http.Request) {
	requestID, err := strconv.Atoi(r.URL.Query().Get(":request_id"))
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}
	photos, err := h.Service.GetRequestPhotos(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, models.ErrRepairRequestNotFound) {
			http.Error(w, "Request not found", http.StatusNotFound)
			return
		}
		log.Printf("GetRequestPhotos error: %v", err)
		http.Error(w, "Failed to get photos", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(photos)
}
