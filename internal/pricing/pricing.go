package pricing

import (
	"math"
	"strings"
)

// Base prices per device category, KZT.
var basePrices = map[string]float64{
	"fridge":     30000,
	"washer":     25000,
	"oven":       20000,
	"dishwasher": 22000,
	"other":      15000,
}

const defaultBasePrice = 1500

// Keyword tiers used for complexity scoring. Weights: high 3, medium 2, low 1.
var complexityKeywords = map[string][]string{
	"high":   {"замена", "двигатель", "компрессор", "плата", "контроллер", "прошивка"},
	"medium": {"течет", "шумит", "негреет", "неохлаждает", "засор", "фильтр"},
	"low":    {"кнопка", "дверца", "шнур", "вилка", "настройка"},
}

const maxComplexityScore = 10

type Complexity struct {
	Score              int      `json:"complexity_score"`
	DetectedKeywords   []string `json:"detected_keywords"`
	EstimatedTimeHours float64  `json:"estimated_time_hours"`
}

type Prediction struct {
	PredictedPrice float64    `json:"predicted_price"`
	Confidence     float64    `json:"confidence"`
	PriceRange     PriceRange `json:"price_range"`
	Complexity     Complexity `json:"complexity_analysis"`
	Message        string     `json:"message"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// AnalyzeComplexity scores a problem description by keyword tier hits,
// capped at maxComplexityScore.
func AnalyzeComplexity(description string) Complexity {
	lower := strings.ToLower(description)
	score := 0
	var detected []string

	for level, keywords := range complexityKeywords {
		for _, keyword := range keywords {
			if !strings.Contains(lower, keyword) {
				continue
			}
			detected = append(detected, keyword)
			switch level {
			case "high":
				score += 3
			case "medium":
				score += 2
			default:
				score++
			}
		}
	}

	// Часы считаются от сырого счёта, кап действует только на сам score.
	hours := float64(score) * 0.5
	if hours < 1 {
		hours = 1
	}
	if score > maxComplexityScore {
		score = maxComplexityScore
	}
	return Complexity{
		Score:              score,
		DetectedKeywords:   detected,
		EstimatedTimeHours: hours,
	}
}

// Estimate returns a rule-based price prediction for a device category and
// problem description. Deterministic, no learning involved, hence the fixed
// low confidence.
func Estimate(deviceType, description string) Prediction {
	base, ok := basePrices[deviceType]
	if !ok {
		base = defaultBasePrice
	}

	complexity := AnalyzeComplexity(description)
	multiplier := 1.0 + float64(complexity.Score)*0.1
	estimated := round2(base * multiplier)

	return Prediction{
		PredictedPrice: estimated,
		Confidence:     0.3,
		PriceRange: PriceRange{
			Min: round2(estimated * 0.5),
			Max: round2(estimated * 1.5),
		},
		Complexity: complexity,
		Message:    "Примерная оценка на основе типа устройства и сложности проблемы",
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
