package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"masterokBack/internal/models"
)

type UserListRepository struct {
	DB *sql.DB
}

// EnsureDefaultLists lazily materializes the four canonical buckets for a
// user; repeated calls are no-ops thanks to the unique key on (user, name).
func (r *UserListRepository) EnsureDefaultLists(ctx context.Context, userID int) error {
	for _, name := range models.ListNames {
		_, err := r.DB.ExecContext(ctx,
			`INSERT IGNORE INTO user_lists (user_id, name, created_at) VALUES (?, ?, ?)`,
			userID, name, time.Now())
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *UserListRepository) GetListsByUser(ctx context.Context, userID int) ([]models.UserList, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, name, created_at FROM user_lists WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []models.UserList{}
	for rows.Next() {
		var l models.UserList
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.CreatedAt); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

func (r *UserListRepository) getListID(ctx context.Context, q queryRower, userID int, name string) (int, error) {
	var id int
	err := q.QueryRowContext(ctx,
		`SELECT id FROM user_lists WHERE user_id = ? AND name = ?`, userID, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, models.ErrListNotFound
	}
	return id, err
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *UserListRepository) AddItem(ctx context.Context, userID int, listName string, requestID int, notes string) (models.ListItem, error) {
	listID, err := r.getListID(ctx, r.DB, userID, listName)
	if err != nil {
		return models.ListItem{}, err
	}
	now := time.Now()
	result, err := r.DB.ExecContext(ctx,
		`INSERT INTO list_items (user_list_id, repair_request_id, notes, added_at) VALUES (?, ?, ?, ?)`,
		listID, requestID, notes, now)
	if err != nil {
		if isDuplicateEntry(err) {
			return models.ListItem{}, models.ErrAlreadyInList
		}
		return models.ListItem{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.ListItem{}, err
	}
	return models.ListItem{
		ID:              int(id),
		UserListID:      listID,
		RepairRequestID: requestID,
		Notes:           notes,
		AddedAt:         now,
	}, nil
}

func (r *UserListRepository) RemoveItem(ctx context.Context, userID int, listName string, requestID int) error {
	listID, err := r.getListID(ctx, r.DB, userID, listName)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM list_items WHERE user_list_id = ? AND repair_request_id = ?`, listID, requestID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrItemNotInList
	}
	return nil
}

// MoveItem transfers an item between two buckets in a single transaction,
// carrying its notes over. A failed insert rolls the delete back, so the
// item is never lost mid-move.
func (r *UserListRepository) MoveItem(ctx context.Context, userID int, requestID int, fromList, toList string) (models.ListItem, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.ListItem{}, err
	}

	fromID, err := r.getListID(ctx, tx, userID, fromList)
	if err != nil {
		tx.Rollback()
		return models.ListItem{}, err
	}
	toID, err := r.getListID(ctx, tx, userID, toList)
	if err != nil {
		tx.Rollback()
		return models.ListItem{}, err
	}

	var notes string
	err = tx.QueryRowContext(ctx,
		`SELECT notes FROM list_items WHERE user_list_id = ? AND repair_request_id = ? FOR UPDATE`,
		fromID, requestID).Scan(&notes)
	if errors.Is(err, sql.ErrNoRows) {
		tx.Rollback()
		return models.ListItem{}, models.ErrItemNotInList
	}
	if err != nil {
		tx.Rollback()
		return models.ListItem{}, err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM list_items WHERE user_list_id = ? AND repair_request_id = ?`, fromID, requestID); err != nil {
		tx.Rollback()
		return models.ListItem{}, err
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO list_items (user_list_id, repair_request_id, notes, added_at) VALUES (?, ?, ?, ?)`,
		toID, requestID, notes, now)
	if err != nil {
		tx.Rollback()
		if isDuplicateEntry(err) {
			return models.ListItem{}, models.ErrAlreadyInList
		}
		return models.ListItem{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		tx.Rollback()
		return models.ListItem{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.ListItem{}, err
	}
	return models.ListItem{
		ID:              int(id),
		UserListID:      toID,
		RepairRequestID: requestID,
		Notes:           notes,
		AddedAt:         now,
	}, nil
}

func (r *UserListRepository) IsInList(ctx context.Context, userID, requestID int, listName string) (bool, error) {
	if listName != "" {
		listID, err := r.getListID(ctx, r.DB, userID, listName)
		if err != nil {
			if errors.Is(err, models.ErrListNotFound) {
				return false, nil
			}
			return false, err
		}
		var count int
		err = r.DB.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM list_items WHERE user_list_id = ? AND repair_request_id = ?`,
			listID, requestID).Scan(&count)
		return count > 0, err
	}
	var count int
	err := r.DB.QueryRowContext(ctx, `
               SELECT COUNT(*) FROM list_items li
               JOIN user_lists ul ON li.user_list_id = ul.id
               WHERE ul.user_id = ? AND li.repair_request_id = ?
       `, userID, requestID).Scan(&count)
	return count > 0, err
}

func (r *UserListRepository) GetItems(ctx context.Context, userID int, listName string) ([]models.ListItem, error) {
	listID, err := r.getListID(ctx, r.DB, userID, listName)
	if err != nil {
		return nil, err
	}
	query := `
               SELECT li.id, li.user_list_id, li.repair_request_id, li.notes, li.added_at,
                      rr.title, rr.status
               FROM list_items li
               JOIN repair_requests rr ON li.repair_request_id = rr.id
               WHERE li.user_list_id = ?
               ORDER BY li.added_at DESC
       `
	rows, err := r.DB.QueryContext(ctx, query, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.ListItem{}
	for rows.Next() {
		var item models.ListItem
		err := rows.Scan(&item.ID, &item.UserListID, &item.RepairRequestID, &item.Notes,
			&item.AddedAt, &item.RequestTitle, &item.RequestStatus)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *UserListRepository) UpdateNotes(ctx context.Context, userID int, listName string, requestID int, notes string) error {
	listID, err := r.getListID(ctx, r.DB, userID, listName)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE list_items SET notes = ? WHERE user_list_id = ? AND repair_request_id = ?`,
		notes, listID, requestID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrItemNotInList
	}
	return nil
}
