package repositories

import (
	"context"
	"database/sql"

	"masterokBack/internal/models"
)

type PriceHistoryRepository struct {
	DB *sql.DB
}

func (r *PriceHistoryRepository) Create(ctx context.Context, h models.PriceHistory) error {
	query := `
               INSERT INTO price_history (repair_request_id, device_type, problem_description, final_price, created_at)
               VALUES (?, ?, ?, ?, NOW())
       `
	_, err := r.DB.ExecContext(ctx, query, h.RepairRequestID, h.DeviceType, h.ProblemDescription, h.FinalPrice)
	return err
}

func (r *PriceHistoryRepository) SetFinalPrice(ctx context.Context, requestID int, finalPrice float64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE price_history SET final_price = ? WHERE repair_request_id = ?`, finalPrice, requestID)
	return err
}

func (r *PriceHistoryRepository) Stats(ctx context.Context) (models.DataStats, error) {
	var stats models.DataStats

	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM repair_requests`).Scan(&stats.TotalRequests); err != nil {
		return stats, err
	}
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM repair_requests WHERE status = 'completed' AND final_price IS NOT NULL`,
	).Scan(&stats.CompletedWithPrice); err != nil {
		return stats, err
	}
	var avg sql.NullFloat64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(final_price) FROM price_history WHERE final_price IS NOT NULL`,
	).Scan(&stats.PriceHistoryRecords, &avg)
	if err != nil {
		return stats, err
	}
	if avg.Valid {
		stats.AveragePrice = avg.Float64
	}
	stats.ReadyForTraining = stats.CompletedWithPrice >= 50
	return stats, nil
}
