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

type UserListHandler struct {
	Service *services.UserListService
}

func listErrorStatus(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrUnknownListName):
		http.Error(w, "Unknown list name", http.StatusBadRequest)
	case errors.Is(err, models.ErrListNotFound):
		http.Error(w, "List not found", http.StatusNotFound)
	case errors.Is(err, models.ErrAlreadyInList):
		http.Error(w, "Request already in this list", http.StatusConflict)
	case errors.Is(err, models.ErrItemNotInList):
		http.Error(w, "Request is not in this list", http.StatusNotFound)
	default:
		log.Printf("user list error: %v", err)
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}

func (h *UserListHandler) GetMyLists(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	lists, err := h.Service.GetUserLists(r.Context(), userID)
	if err != nil {
		listErrorStatus(w, err, "Failed to get lists")
		return
	}
	json.NewEncoder(w).Encode(lists)
}

func (h *UserListHandler) GetListItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	listName := r.URL.Query().Get(":name")
	items, err := h.Service.GetListItems(r.Context(), userID, listName)
	if err != nil {
		listErrorStatus(w, err, "Failed to get list items")
		return
	}
	json.NewEncoder(w).Encode(items)
}

func (h *UserListHandler) AddToList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	listName := r.URL.Query().Get(":name")
	var body struct {
		RepairRequestID int    `json:"repair_request_id"`
		Notes           string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RepairRequestID == 0 {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	item, err := h.Service.AddToList(r.Context(), userID, listName, body.RepairRequestID, body.Notes)
	if err != nil {
		listErrorStatus(w, err, "Failed to add to list")
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

func (h *UserListHandler) RemoveFromList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	listName := r.URL.Query().Get(":name")
	requestID, err := strconv.Atoi(r.URL.Query().Get(":request_id"))
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}
	if err := h.Service.RemoveFromList(r.Context(), userID, listName, requestID); err != nil {
		listErrorStatus(w, err, "Failed to remove from list")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *UserListHandler) MoveBetweenLists(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var body struct {
		RepairRequestID int    `json:"repair_request_id"`
		FromList        string `json:"from_list"`
		ToList          string `json:"to_list"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RepairRequestID == 0 {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	item, err := h.Service.MoveBetweenLists(r.Context(), userID, body.RepairRequestID, body.FromList, body.ToList)
	if err != nil {
		listErrorStatus(w, err, "Failed to move between lists")
		return
	}
	json.NewEncoder(w).Encode(item)
}

func (h *UserListHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	listName := r.URL.Query().Get(":name")
	requestID, err := strconv.Atoi(r.URL.Query().Get(":request_id"))
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}
	var body struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Service.UpdateItemNotes(r.Context(), userID, listName, requestID, body.Notes); err != nil {
		listErrorStatus(w, err, "Failed to update notes")
		return
	}
	w.WriteHeader(http.StatusOK)
}
