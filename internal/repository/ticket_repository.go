package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/sicada/admin-service/internal/entity"
)

const ticketColumns = `id, title, description, type, status, priority, images, location_address,
		location_lat, location_lng, assigned_officer, resolution, portal, user_id, user_request_data,
		created_at, updated_at`

func scanTicket(row pgx.Row) (*entity.Ticket, error) {
	var ticket entity.Ticket

	err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Type,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Images,
		&ticket.Location.Address,
		&ticket.Location.Lat,
		&ticket.Location.Lng,
		&ticket.AssignedOfficer,
		&ticket.Resolution,
		&ticket.Portal,
		&ticket.UserID,
		&ticket.UserRequestData,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrTicketNotFound
		}

		return nil, err
	}

	return &ticket, nil
}

const insertTicketQuery = `
	INSERT INTO tickets (
		id, title, description, type, status, priority, images, location_address, location_lat,
		location_lng, assigned_officer, resolution, portal, user_id, user_request_data, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

func (r *Repository) CreateTicket(ctx context.Context, ticket *entity.Ticket, activity entity.Activity) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertTicketQuery,
			ticket.ID,
			ticket.Title,
			ticket.Description,
			ticket.Type,
			ticket.Status,
			ticket.Priority,
			ticket.Images,
			ticket.Location.Address,
			ticket.Location.Lat,
			ticket.Location.Lng,
			ticket.AssignedOfficer,
			ticket.Resolution,
			ticket.Portal,
			ticket.UserID,
			ticket.UserRequestData,
			ticket.CreatedAt,
			ticket.UpdatedAt,
		)
		if err != nil {
			return err
		}

		return insertActivity(ctx, tx, activity)
	})
}

func (r *Repository) TicketByID(ctx context.Context, ticketID uuid.UUID) (*entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	return scanTicket(r.pool.QueryRow(ctx, query, ticketID))
}

type TicketFilter struct {
	Portal   entity.Portal
	Status   entity.TicketStatus
	Type     entity.TicketType
	Priority entity.Priority
	UserID   string
	Page     uint64
	Limit    uint64
}

func (r *Repository) Tickets(ctx context.Context, filter TicketFilter) ([]entity.Ticket, int, error) {
	where := sq.And{}

	if filter.Portal != "" {
		where = append(where, sq.Eq{"portal": filter.Portal})
	}

	if filter.Status != "" {
		where = append(where, sq.Eq{"status": filter.Status})
	}

	if filter.Type != "" {
		where = append(where, sq.Eq{"type": filter.Type})
	}

	if filter.Priority != "" {
		where = append(where, sq.Eq{"priority": filter.Priority})
	}

	if filter.UserID != "" {
		where = append(where, sq.Eq{"user_id": filter.UserID})
	}

	countStmt := sq.Select("count(*)").From("tickets").PlaceholderFormat(sq.Dollar)
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

	stmt := sq.Select(
		"id", "title", "description", "type", "status", "priority", "images", "location_address",
		"location_lat", "location_lng", "assigned_officer", "resolution", "portal", "user_id",
		"user_request_data", "created_at", "updated_at",
	).From("tickets").
		PlaceholderFormat(sq.Dollar).
		OrderBy("created_at DESC").
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

	tickets := make([]entity.Ticket, 0, filter.Limit)

	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}

		tickets = append(tickets, *ticket)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return tickets, count, nil
}

const updateTicketQuery = `
	UPDATE tickets SET
		title = $2,
		description = $3,
		type = $4,
		priority = $5,
		images = $6,
		location_address = $7,
		location_lat = $8,
		location_lng = $9,
		updated_at = $10
	WHERE id = $1`

func (r *Repository) UpdateTicket(ctx context.Context, ticket *entity.Ticket, activity entity.Activity) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateTicketQuery,
			ticket.ID,
			ticket.Title,
			ticket.Description,
			ticket.Type,
			ticket.Priority,
			ticket.Images,
			ticket.Location.Address,
			ticket.Location.Lat,
			ticket.Location.Lng,
			time.Now().UTC(),
		)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return entity.ErrTicketNotFound
		}

		return insertActivity(ctx, tx, activity)
	})
}

// UpdateTicketStatus moves a ticket from one status to another. The guard on
// the previous status makes concurrent transitions lose cleanly instead of
// overwriting each other.
func (r *Repository) UpdateTicketStatus(
	ctx context.Context,
	ticketID uuid.UUID,
	from, to entity.TicketStatus,
	resolution *string,
	activity entity.Activity,
) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE tickets SET status = $1, resolution = COALESCE($2, resolution), updated_at = $3
			 WHERE id = $4 AND status = $5`,
			to, resolution, time.Now().UTC(), ticketID, from)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return entity.ErrInvalidTransition
		}

		return insertActivity(ctx, tx, activity)
	})
}

func (r *Repository) AssignTicket(
	ctx context.Context, ticketID uuid.UUID, officer string, activity entity.Activity,
) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE tickets SET assigned_officer = $1, updated_at = $2 WHERE id = $3`,
			officer, time.Now().UTC(), ticketID)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return entity.ErrTicketNotFound
		}

		return insertActivity(ctx, tx, activity)
	})
}

func (r *Repository) DeleteTicket(ctx context.Context, ticketID uuid.UUID, activity entity.Activity) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, ticketID)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return entity.ErrTicketNotFound
		}

		return insertActivity(ctx, tx, activity)
	})
}

// ApproveUserRequest creates the account proposed by a user_request ticket
// and flips the ticket to approved in the same transaction, so a unique
// violation on the new account leaves the ticket pending.
func (r *Repository) ApproveUserRequest(
	ctx context.Context, ticketID uuid.UUID, user *entity.User, activity entity.Activity,
) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx,
			`UPDATE tickets SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
			entity.TicketStatusApproved, time.Now().UTC(), ticketID, entity.TicketStatusPending)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return entity.ErrInvalidTransition
		}

		return insertActivity(ctx, tx, activity)
	})
}

func (r *Repository) TicketStats(ctx context.Context, portal entity.Portal) (entity.TicketStats, error) {
	stats := entity.TicketStats{
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
	}

	stmt := sq.Select("status", "priority", "count(*)").
		From("tickets").
		PlaceholderFormat(sq.Dollar).
		GroupBy("status", "priority")

	if portal != "" {
		stmt = stmt.Where(sq.Eq{"portal": portal})
	}

	sqlQuery, args, err := stmt.ToSql()
	if err != nil {
		return entity.TicketStats{}, err
	}

	rows, err := r.pool.Query(ctx, sqlQuery, args...)
	if err != nil {
		return entity.TicketStats{}, err
	}

	defer rows.Close()

	for rows.Next() {
		var (
			status   string
			priority string
			count    int
		)

		if err := rows.Scan(&status, &priority, &count); err != nil {
			return entity.TicketStats{}, err
		}

		stats.Total += count
		stats.ByStatus[status] += count
		stats.ByPriority[priority] += count
	}

	if err = rows.Err(); err != nil {
		return entity.TicketStats{}, err
	}

	return stats, nil
}
