package services

import (
	"context"
	"errors"
	"log"

	"masterokBack/internal/models"
)

type UserListRepo interface {
	EnsureDefaultLists(ctx context.Context, userID int) error
	GetListsByUser(ctx context.Context, userID int) ([]models.UserList, error)
	AddItem(ctx context.Context, userID int, listName string, requestID int, notes string) (models.ListItem, error)
	RemoveItem(ctx context.Context, userID int, listName string, requestID int) error
	MoveItem(ctx context.Context, userID int, requestID int, fromList, toList string) (models.ListItem, error)
	IsInList(ctx context.Context, userID, requestID int, listName string) (bool, error)
	GetItems(ctx context.Context, userID int, listName string) ([]models.ListItem, error)
	UpdateNotes(ctx context.Context, userID int, listName string, requestID int, notes string) error
}

type UserListService struct {
	ListRepo UserListRepo
	ErrorLog *log.Logger
}

func (s *UserListService) GetUserLists(ctx context.Context, userID int) ([]models.UserList, error) {
	if err := s.ListRepo.EnsureDefaultLists(ctx, userID); err != nil {
		return nil, err
	}
	return s.ListRepo.GetListsByUser(ctx, userID)
}

func (s *UserListService) AddToList(ctx context.Context, userID int, listName string, requestID int, notes string) (models.ListItem, error) {
	if !models.IsKnownListName(listName) {
		return models.ListItem{}, models.ErrUnknownListName
	}
	if err := s.ListRepo.EnsureDefaultLists(ctx, userID); err != nil {
		return models.ListItem{}, err
	}
	return s.ListRepo.AddItem(ctx, userID, listName, requestID, notes)
}

func (s *UserListService) RemoveFromList(ctx context.Context, userID int, listName string, requestID int) error {
	if !models.IsKnownListName(listName) {
		return models.ErrUnknownListName
	}
	return s.ListRepo.RemoveItem(ctx, userID, listName, requestID)
}

// MoveBetweenLists removes the item from one list and adds it to another as a
// single step. Notes carry over.
func (s *UserListService) MoveBetweenLists(ctx context.Context, userID, requestID int, fromList, toList string) (models.ListItem, error) {
	if !models.IsKnownListName(fromList) || !models.IsKnownListName(toList) {
		return models.ListItem{}, models.ErrUnknownListName
	}
	if fromList == toList {
		return models.ListItem{}, models.ErrAlreadyInList
	}
	return s.ListRepo.MoveItem(ctx, userID, requestID, fromList, toList)
}

func (s *UserListService) GetListItems(ctx context.Context, userID int, listName string) ([]models.ListItem, error) {
	if !models.IsKnownListName(listName) {
		return nil, models.ErrUnknownListName
	}
	if err := s.ListRepo.EnsureDefaultLists(ctx, userID); err != nil {
		return nil, err
	}
	return s.ListRepo.GetItems(ctx, userID, listName)
}

func (s *UserListService) UpdateItemNotes(ctx context.Context, userID int, listName string, requestID int, notes string) error {
	if !models.IsKnownListName(listName) {
		return models.ErrUnknownListName
	}
	return s.ListRepo.UpdateNotes(ctx, userID, listName, requestID, notes)
}

func (s *UserListService) IsInList(ctx context.Context, userID, requestID int, listName string) (bool, error) {
	if listName != "" && !models.IsKnownListName(listName) {
		return false, models.ErrUnknownListName
	}
	return s.ListRepo.IsInList(ctx, userID, requestID, listName)
}

// Auto-list maintenance. These run as side effects of lifecycle operations
// and must never fail the main operation, so errors are logged and dropped.

func (s *UserListService) AutoWatch(ctx context.Context, workerID, requestID int) {
	if err := s.ListRepo.EnsureDefaultLists(ctx, workerID); err != nil {
		s.logError(err)
		return
	}
	_, err := s.ListRepo.AddItem(ctx, workerID, models.ListWatching, requestID, "")
	if err != nil && !errors.Is(err, models.ErrAlreadyInList) {
		s.logError(err)
	}
}

func (s *UserListService) AutoApply(ctx context.Context, workerID, requestID int) {
	_, err := s.ListRepo.MoveItem(ctx, workerID, requestID, models.ListWatching, models.ListApplied)
	if err != nil && !errors.Is(err, models.ErrItemNotInList) && !errors.Is(err, models.ErrAlreadyInList) {
		s.logError(err)
	}
}

func (s *UserListService) AutoComplete(ctx context.Context, workerID, requestID int) {
	_, err := s.ListRepo.MoveItem(ctx, workerID, requestID, models.ListApplied, models.ListCompleted)
	if err != nil && !errors.Is(err, models.ErrItemNotInList) && !errors.Is(err, models.ErrAlreadyInList) {
		s.logError(err)
	}
}

func (s *UserListService) logError(err error) {
	if s.ErrorLog != nil {
		s.ErrorLog.Println(err)
	}
}
