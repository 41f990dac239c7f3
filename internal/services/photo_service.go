package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"masterokBack/internal/models"
	"masterokBack/utils"
)

type ProblemPhotoRepo interface {
	Create(ctx context.Context, photo models.ProblemPhoto) (models.ProblemPhoto, error)
	GetByRequest(ctx context.Context, requestID int) ([]models.ProblemPhoto, error)
}

// Uploader pushes raw file bytes to object storage and returns a public URL.
type Uploader func(file []byte, fileName string, folder string) (string, error)

type ProblemPhotoService struct {
	PhotoRepo   ProblemPhotoRepo
	RequestRepo RequestGetter
	Upload      Uploader
}

// AttachPhoto uploads a problem photo for a request and records its URL.
// Only the request owner may attach photos.
func (s *ProblemPhotoService) AttachPhoto(ctx context.Context, userID, requestID int, file []byte, originalName, description string) (models.ProblemPhoto, error) {
	if len(file) == 0 {
		return models.ProblemPhoto{}, models.ErrMissingFields
	}
	req, err := s.RequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return models.ProblemPhoto{}, err
	}
	if req.CreatedBy != userID {
		return models.ProblemPhoto{}, models.ErrForbidden
	}

	upload := s.Upload
	if upload == nil {
		upload = utils.UploadFileToS3
	}
	ext := filepath.Ext(originalName)
	fileName := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	url, err := upload(file, fileName, "problem_photos")
	if err != nil {
		return models.ProblemPhoto{}, err
	}

	return s.PhotoRepo.Create(ctx, models.ProblemPhoto{
		RepairRequestID: requestID,
		URL:             url,
		Description:     description,
	})
}

func (s *ProblemPhotoService) GetRequestPhotos(ctx context.Context, requestID int) ([]models.ProblemPhoto, error) {
	if _, err := s.RequestRepo.GetByID(ctx, requestID); err != nil {
		return nil, err
	}
	return s.PhotoRepo.GetByRequest(ctx, requestID)
}
