package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/sicada/admin-service/internal/entity"
)

const insertActivityQuery = `
	INSERT INTO activities (id, type, description, timestamp, user_name, portal, ticket_id, user_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func insertActivity(ctx context.Context, tx pgx.Tx, a entity.Activity) error {
	_, err := tx.Exec(ctx, insertActivityQuery,
		a.ID,
		a.Type,
		a.Description,
		a.Timestamp,
		a.UserName,
		a.Portal,
		a.TicketID,
		a.UserID,
	)

	return err
}

type ActivityFilter struct {
	Type     string
	Portal   entity.Portal
	UserID   string
	TicketID string
	Page     uint64
	Limit    uint64
}

func (r *Repository) Activities(ctx context.Context, filter ActivityFilter) ([]entity.Activity, int, error) {
	where := sq.And{}

	if filter.Type != "" {
		where = append(where, sq.Eq{"type": filter.Type})
	}

	if filter.Portal != "" {
		where = append(where, sq.Eq{"portal": filter.Portal})
	}

	if filter.UserID != "" {
		where = append(where, sq.Eq{"user_id": filter.UserID})
	}

	if filter.TicketID != "" {
		where = append(where, sq.Eq{"ticket_id": filter.TicketID})
	}

	countStmt := sq.Select("count(*)").From("activities").PlaceholderFormat(sq.Dollar)
	if len(where) > 0 {
		countStmt = countStmt.Where(where)
	}

	sqlQuery, args, err := countStmt.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var count int

	err = r.pool.QueryRow(ctx, sqlQuery, args...).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	stmt := sq.Select("id", "type", "description", "timestamp", "user_name", "portal", "ticket_id", "user_id").
		From("activities").
		PlaceholderFormat(sq.Dollar).
		OrderBy("timestamp DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit)

	if len(where) > 0 {
		stmt = stmt.Where(where)
	}

	sqlQuery, args, err = stmt.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	activities := make([]entity.Activity, 0, filter.Limit)

	for rows.Next() {
		var a entity.Activity

		err = rows.Scan(&a.ID, &a.Type, &a.Description, &a.Timestamp, &a.UserName, &a.Portal, &a.TicketID, &a.UserID)
		if err != nil {
			return nil, 0, err
		}

		activities = append(activities, a)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return activities, count, nil
}

func (r *Repository) RecentActivities(ctx context.Context, limit int) ([]entity.Activity, error) {
	query := `
		SELECT id, type, description, timestamp, user_name, portal, ticket_id, user_id
		FROM activities
		ORDER BY timestamp DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	activities := make([]entity.Activity, 0, limit)

	for rows.Next() {
		var a entity.Activity

		err = rows.Scan(&a.ID, &a.Type, &a.Description, &a.Timestamp, &a.UserName, &a.Portal, &a.TicketID, &a.UserID)
		if err != nil {
			return nil, err
		}

		activities = append(activities, a)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return activities, nil
}

// LogActivity records an audit row outside of any entity mutation
// (login, logout and other read-adjacent events).
func (r *Repository) LogActivity(ctx context.Context, activity entity.Activity) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return insertActivity(ctx, tx, activity)
	})
}
