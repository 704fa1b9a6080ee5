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

const parkingRequestColumns = `id, title, description, location_address, location_lat, location_lng,
		requester_name, requester_email, requester_phone, requester_id_card, requester_organization,
		status, priority, requested_spaces, estimated_cost, documents, reviewed_by, review_notes,
		created_at, updated_at`

func scanParkingRequest(row pgx.Row) (*entity.ParkingRequest, error) {
	var req entity.ParkingRequest

	err := row.Scan(
		&req.ID,
		&req.Title,
		&req.Description,
		&req.Location.Address,
		&req.Location.Lat,
		&req.Location.Lng,
		&req.Requester.Name,
		&req.Requester.Email,
		&req.Requester.Phone,
		&req.Requester.IDCard,
		&req.Requester.Organization,
		&req.Status,
		&req.Priority,
		&req.RequestedSpaces,
		&req.EstimatedCost,
		&req.Documents,
		&req.ReviewedBy,
		&req.ReviewNotes,
		&req.CreatedAt,
		&req.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrRequestNotFound
		}

		return nil, err
	}

	return &req, nil
}

const insertParkingRequestQuery = `
	INSERT INTO parking_requests (
		id, title, description, location_address, location_lat, location_lng, requester_name,
		requester_email, requester_phone, requester_id_card, requester_organization, status, priority,
		requested_spaces, estimated_cost, documents, reviewed_by, review_notes, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

func (r *Repository) CreateParkingRequest(
	ctx context.Context, req *entity.ParkingRequest, activity entity.Activity,
) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertParkingRequestQuery,
			req.ID,
			req.Title,
			req.Description,
			req.Location.Address,
			req.Location.Lat,
			req.Location.Lng,
			req.Requester.Name,
			req.Requester.Email,
			req.Requester.Phone,
			req.Requester.IDCard,
			req.Requester.Organization,
			req.Status,
			req.Priority,
			req.RequestedSpaces,
			req.EstimatedCost,
			req.Documents,
			req.ReviewedBy,
			req.ReviewNotes,
			req.CreatedAt,
			req.UpdatedAt,
		)
		if err != nil {
			return err
		}

		return insertActivity(ctx, tx, activity)
	})
}

func (r *Repository) ParkingRequestByID(ctx context.Context, requestID uuid.UUID) (*entity.ParkingRequest, error) {
	query := `SELECT ` + parkingRequestColumns + ` FROM parking_requests WHERE id = $1`
	return scanParkingRequest(r.pool.QueryRow(ctx, query, requestID))
}

type ParkingRequestFilter struct {
	Status   entity.RequestStatus
	Priority entity.Priority
	Page     uint64
	Limit    uint64
}

func (r *Repository) ParkingRequests(
	ctx context.Context, filter ParkingRequestFilter,
) ([]entity.ParkingRequest, int, error) {
	where := sq.And{}

	if filter.Status != "" {
		where = append(where, sq.Eq{"status": filter.Status})
	}

	if filter.Priority != "" {
		where = append(where, sq.Eq{"priority": filter.Priority})
	}

	countStmt := sq.Select("count(*)").From("parking_requests").PlaceholderFormat(sq.Dollar)
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
		"id", "title", "description", "location_address", "location_lat", "location_lng",
		"requester_name", "requester_email", "requester_phone", "requester_id_card",
		"requester_organization", "status", "priority", "requested_spaces", "estimated_cost",
		"documents", "reviewed_by", "review_notes", "created_at", "updated_at",
	).From("parking_requests").
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

	requests := make([]entity.ParkingRequest, 0, filter.Limit)

	for rows.Next() {
		req, err := scanParkingRequest(rows)
		if err != nil {
			return nil, 0, err
		}

		requests = append(requests, *req)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return requests, count, nil
}

const updateParkingRequestQuery = `
	UPDATE parking_requests SET
		title = $2,
		description = $3,
		location_address = $4,
		location_lat = $5,
		location_lng = $6,
		priority = $7,
		requested_spaces = $8,
		estimated_cost = $9,
		documents = $10,
		updated_at = $11
	WHERE id = $1`

func (r *Repository) UpdateParkingRequest(
	ctx context.Context, req *entity.ParkingRequest, activity entity.Activity,
) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateParkingRequestQuery,
			req.ID,
			req.Title,
			req.Description,
			req.Location.Address,
			req.Location.Lat,
			req.Location.Lng,
			req.Priority,
			req.RequestedSpaces,
			req.EstimatedCost,
			req.Documents,
			time.Now().UTC(),
		)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return entity.ErrRequestNotFound
		}

		return insertActivity(ctx, tx, activity)
	})
}

// UpdateParkingRequestStatus records the review decision. The guard on the
// previous status keeps concurrent reviews from clobbering a decided request.
func (r *Repository) UpdateParkingRequestStatus(
	ctx context.Context,
	requestID uuid.UUID,
	from, to entity.RequestStatus,
	reviewedBy string,
	reviewNotes *string,
	activity entity.Activity,
) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE parking_requests
			 SET status = $1, reviewed_by = $2, review_notes = COALESCE($3, review_notes), updated_at = $4
			 WHERE id = $5 AND status = $6`,
			to, reviewedBy, reviewNotes, time.Now().UTC(), requestID, from)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return entity.ErrInvalidTransition
		}

		return insertActivity(ctx, tx, activity)
	})
}

func (r *Repository) DeleteParkingRequest(
	ctx context.Context, requestID uuid.UUID, activity entity.Activity,
) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM parking_requests WHERE id = $1`, requestID)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return entity.ErrRequestNotFound
		}

		return insertActivity(ctx, tx, activity)
	})
}

func (r *Repository) ParkingRequestStats(ctx context.Context) (entity.RequestStats, error) {
	stats := entity.RequestStats{
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
	}

	rows, err := r.pool.Query(ctx,
		`SELECT status, priority, count(*), COALESCE(SUM(requested_spaces) FILTER (WHERE status = 'approved'), 0)
		 FROM parking_requests GROUP BY status, priority`)
	if err != nil {
		return entity.RequestStats{}, err
	}

	defer rows.Close()

	for rows.Next() {
		var (
			status         string
			priority       string
			count          int
			approvedSpaces int
		)

		if err := rows.Scan(&status, &priority, &count, &approvedSpaces); err != nil {
			return entity.RequestStats{}, err
		}

		stats.Total += count
		stats.ByStatus[status] += count
		stats.ByPriority[priority] += count
		stats.TotalApprovedSpaces += approvedSpaces
	}

	if err = rows.Err(); err != nil {
		return entity.RequestStats{}, err
	}

	return stats, nil
}
