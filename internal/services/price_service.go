package services

import (
	"context"
	"strings"

	"masterokBack/internal/models"
	"masterokBack/internal/pricing"
)

// PriceService exposes the rule-based estimator and the accumulated pricing
// data. Unknown device categories are allowed here, they just fall back to
// the default base price.
type PriceService struct {
	PriceRepo PriceHistoryRepo
}

func (s *PriceService) PredictPrice(ctx context.Context, deviceType, description string) (pricing.Prediction, error) {
	deviceType = strings.TrimSpace(deviceType)
	description = strings.TrimSpace(description)
	if deviceType == "" || description == "" {
		return pricing.Prediction{}, models.ErrMissingFields
	}
	return pricing.Estimate(deviceType, description), nil
}

func (s *PriceService) AnalyzeComplexity(ctx context.Context, description string) (pricing.Complexity, error) {
	if strings.TrimSpace(description) == "" {
		return pricing.Complexity{}, models.ErrMissingFields
	}
	return pricing.AnalyzeComplexity(description), nil
}

func (s *PriceService) DataStats(ctx context.Context) (models.DataStats, error) {
	return s.PriceRepo.Stats(ctx)
}
