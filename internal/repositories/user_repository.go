package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"masterokBack/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r *UserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
               INSERT INTO users (name, phone, email, password, city, role, created_at)
               VALUES (?, ?, ?, ?, ?, ?, ?)
       `
	now := time.Now()
	result, err := r.DB.ExecContext(ctx, query,
		user.Name, user.Phone, user.Email, user.Password, user.City, user.Role, now)
	if err != nil {
		if isDuplicateEntry(err) {
			return models.User{}, models.ErrDuplicateEmail
		}
		return models.User{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	user.ID = int(id)
	user.CreatedAt = now
	user.Password = ""
	return user, nil
}

func (r *UserRepository) CreateWorkerProfile(ctx context.Context, profile models.WorkerProfile) error {
	query := `
               INSERT INTO worker_profiles (user_id, specialization, experience, rating, is_verified)
               VALUES (?, ?, ?, 0.0, FALSE)
       `
	_, err := r.DB.ExecContext(ctx, query, profile.UserID, profile.Specialization, profile.Experience)
	return err
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (models.User, error) {
	query := `
               SELECT u.id, u.name, u.phone, u.email, u.city, u.role, u.created_at, u.updated_at,
                      wp.specialization, wp.experience, wp.rating, wp.is_verified
               FROM users u
               LEFT JOIN worker_profiles wp ON wp.user_id = u.id
               WHERE u.id = ?
       `
	var user models.User
	var specialization sql.NullString
	var experience sql.NullInt64
	var rating sql.NullFloat64
	var verified sql.NullBool
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Phone, &user.Email, &user.City, &user.Role,
		&user.CreatedAt, &user.UpdatedAt,
		&specialization, &experience, &rating, &verified,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	if user.Role == models.RoleWorker && specialization.Valid {
		user.WorkerProfile = &models.WorkerProfile{
			UserID:         user.ID,
			Specialization: specialization.String,
			Experience:     int(experience.Int64),
			Rating:         rating.Float64,
			IsVerified:     verified.Bool,
		}
	}
	return user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT id, name, phone, email, password, city, role, created_at FROM users WHERE email = ?`
	var user models.User
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Phone, &user.Email, &user.Password, &user.City, &user.Role, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) CreateSession(ctx context.Context, session models.Session) error {
	query := `
               INSERT INTO sessions (user_id, role, refresh_token, expires_at)
               VALUES (?, ?, ?, ?)
               ON DUPLICATE KEY UPDATE refresh_token = VALUES(refresh_token), expires_at = VALUES(expires_at)
       `
	_, err := r.DB.ExecContext(ctx, query, session.UserID, session.Role, session.RefreshToken, session.ExpiresAt)
	return err
}

func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (models.Session, error) {
	query := `SELECT user_id, role, refresh_token, expires_at FROM sessions WHERE refresh_token = ?`
	var session models.Session
	err := r.DB.QueryRowContext(ctx, query, refreshToken).Scan(
		&session.UserID, &session.Role, &session.RefreshToken, &session.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, nil
	}
	if err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (r *UserRepository) DeleteSession(ctx context.Context, userID int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

// UpdateWorkerRating writes the recomputed aggregate back to the profile.
func (r *UserRepository) UpdateWorkerRating(ctx context.Context, workerID int, rating float64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE worker_profiles SET rating = ? WHERE user_id = ?`, rating, workerID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrWorkerNotFound
	}
	return nil
}

func (r *UserRepository) GetTopWorkers(ctx context.Context, limit int) ([]models.User, error) {
	query := `
               SELECT u.id, u.name, u.city, u.role, u.created_at,
                      wp.specialization, wp.experience, wp.rating, wp.is_verified
               FROM users u
               JOIN worker_profiles wp ON wp.user_id = u.id
               WHERE wp.is_verified = TRUE
               ORDER BY wp.rating DESC
               LIMIT ?
       `
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		profile := &models.WorkerProfile{}
		err := rows.Scan(&user.ID, &user.Name, &user.City, &user.Role, &user.CreatedAt,
			&profile.Specialization, &profile.Experience, &profile.Rating, &profile.IsVerified)
		if err != nil {
			return nil, err
		}
		profile.UserID = user.ID
		user.WorkerProfile = profile
		users = append(users, user)
	}
	return users, rows.Err()
}
