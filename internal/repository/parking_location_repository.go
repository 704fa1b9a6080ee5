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

const parkingLocationColumns = `id, name, address, lat, lng, total_spaces, available_spaces,
		hourly_rate, daily_rate, monthly_rate, features, status, opening_hours_monday,
		opening_hours_tuesday, opening_hours_wednesday, opening_hours_thursday, opening_hours_friday,
		opening_hours_saturday, opening_hours_sunday, contact_phone, contact_email, manager_name,
		manager_phone, manager_email, created_at, updated_at`

func scanParkingLocation(row pgx.Row) (*entity.ParkingLocation, error) {
	var loc entity.ParkingLocation

	err := row.Scan(
		&loc.ID,
		&loc.Name,
		&loc.Address,
		&loc.Lat,
		&loc.Lng,
		&loc.TotalSpaces,
		&loc.AvailableSpaces,
		&loc.HourlyRate,
		&loc.DailyRate,
		&loc.MonthlyRate,
		&loc.Features,
		&loc.Status,
		&loc.OpeningHours.Monday,
		&loc.OpeningHours.Tuesday,
		&loc.OpeningHours.Wednesday,
		&loc.OpeningHours.Thursday,
		&loc.OpeningHours.Friday,
		&loc.OpeningHours.Saturday,
		&loc.OpeningHours.Sunday,
		&loc.Contact.Phone,
		&loc.Contact.Email,
		&loc.Manager.Name,
		&loc.Manager.Phone,
		&loc.Manager.Email,
		&loc.CreatedAt,
		&loc.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrLocationNotFound
		}

		return nil, err
	}

	return &loc, nil
}

const insertParkingLocationQuery = `
	INSERT INTO parking_locations (
		id, name, address, lat, lng, total_spaces, available_spaces, hourly_rate, daily_rate,
		monthly_rate, features, status, opening_hours_monday, opening_hours_tuesday,
		opening_hours_wednesday, opening_hours_thursday, opening_hours_friday, opening_hours_saturday,
		opening_hours_sunday, contact_phone, contact_email, manager_name, manager_phone, manager_email,
		created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
		$20, $21, $22, $23, $24, $25, $26)`

func (r *Repository) CreateParkingLocation(
	ctx context.Context, loc *entity.ParkingLocation, activity entity.Activity,
) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertParkingLocationQuery,
			loc.ID,
			loc.Name,
			loc.Address,
			loc.Lat,
			loc.Lng,
			loc.TotalSpaces,
			loc.AvailableSpaces,
			loc.HourlyRate,
			loc.DailyRate,
			loc.MonthlyRate,
			loc.Features,
			loc.Status,
			loc.OpeningHours.Monday,
			loc.OpeningHours.Tuesday,
			loc.OpeningHours.Wednesday,
			loc.OpeningHours.Thursday,
			loc.OpeningHours.Friday,
			loc.OpeningHours.Saturday,
			loc.OpeningHours.Sunday,
			loc.Contact.Phone,
			loc.Contact.Email,
			loc.Manager.Name,
			loc.Manager.Phone,
			loc.Manager.Email,
			loc.CreatedAt,
			loc.UpdatedAt,
		)
		if err != nil {
			return err
		}

		return insertActivity(ctx, tx, activity)
	})
}

func (r *Repository) ParkingLocationByID(ctx context.Context, locationID uuid.UUID) (*entity.ParkingLocation, error) {
	query := `SELECT ` + parkingLocationColumns + ` FROM parking_locations WHERE id = $1`
	return scanParkingLocation(r.pool.QueryRow(ctx, query, locationID))
}

type ParkingLocationFilter struct {
	Status entity.LocationStatus
	Page   uint64
	Limit  uint64
}

func (r *Repository) ParkingLocations(
	ctx context.Context, filter ParkingLocationFilter,
) ([]entity.ParkingLocation, int, error) {
	where := sq.And{}

	if filter.Status != "" {
		where = append(where, sq.Eq{"status": filter.Status})
	}

	countStmt := sq.Select("count(*)").From("parking_locations").PlaceholderFormat(sq.Dollar)
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
		"id", "name", "address", "lat", "lng", "total_spaces", "available_spaces", "hourly_rate",
		"daily_rate", "monthly_rate", "features", "status", "opening_hours_monday",
		"opening_hours_tuesday", "opening_hours_wednesday", "opening_hours_thursday",
		"opening_hours_friday", "opening_hours_saturday", "opening_hours_sunday", "contact_phone",
		"contact_email", "manager_name", "manager_phone", "manager_email", "created_at", "updated_at",
	).From("parking_locations").
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

	locations := make([]entity.ParkingLocation, 0, filter.Limit)

	for rows.Next() {
		loc, err := scanParkingLocation(rows)
		if err != nil {
			return nil, 0, err
		}

		locations = append(locations, *loc)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return locations, count, nil
}

const updateParkingLocationQuery = `
	UPDATE parking_locations SET
		name = $2,
		address = $3,
		lat = $4,
		lng = $5,
		total_spaces = $6,
		available_spaces = $7,
		hourly_rate = $8,
		daily_rate = $9,
		monthly_rate = $10,
		features = $11,
		opening_hours_monday = $12,
		opening_hours_tuesday = $13,
		opening_hours_wednesday = $14,
		opening_hours_thursday = $15,
		opening_hours_friday = $16,
		opening_hours_saturday = $17,
		opening_hours_sunday = $18,
		contact_phone = $19,
		contact_email = $20,
		manager_name = $21,
		manager_phone = $22,
		manager_email = $23,
		updated_at = $24
	WHERE id = $1`

func (r *Repository) UpdateParkingLocation(
	ctx context.Context, loc *entity.ParkingLocation, activity entity.Activity,
) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateParkingLocationQuery,
			loc.ID,
			loc.Name,
			loc.Address,
			loc.Lat,
			loc.Lng,
			loc.TotalSpaces,
			loc.AvailableSpaces,
			loc.HourlyRate,
			loc.DailyRate,
			loc.MonthlyRate,
			loc.Features,
			loc.OpeningHours.Monday,
			loc.OpeningHours.Tuesday,
			loc.OpeningHours.Wednesday,
			loc.OpeningHours.Thursday,
			loc.OpeningHours.Friday,
			loc.OpeningHours.Saturday,
			loc.OpeningHours.Sunday,
			loc.Contact.Phone,
			loc.Contact.Email,
			loc.Manager.Name,
			loc.Manager.Phone,
			loc.Manager.Email,
			time.Now().UTC(),
		)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return entity.ErrLocationNotFound
		}

		return insertActivity(ctx, tx, activity)
	})
}

func (r *Repository) UpdateParkingLocationStatus(
	ctx context.Context, locationID uuid.UUID, status entity.LocationStatus, activity entity.Activity,
) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE parking_locations SET status = $1, updated_at = $2 WHERE id = $3`,
			status, time.Now().UTC(), locationID)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return entity.ErrLocationNotFound
		}

		return insertActivity(ctx, tx, activity)
	})
}

// UpdateAvailableSpaces re-checks the capacity invariant under a row lock so
// concurrent counter updates cannot exceed total_spaces.
func (r *Repository) UpdateAvailableSpaces(
	ctx context.Context, locationID uuid.UUID, available int, activity entity.Activity,
) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		var total int

		err := tx.QueryRow(ctx,
			`SELECT total_spaces FROM parking_locations WHERE id = $1 FOR UPDATE`,
			locationID).Scan(&total)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return entity.ErrLocationNotFound
			}

			return err
		}

		if !entity.ValidSpaces(available, total) {
			return entity.ErrSpacesOutOfRange
		}

		_, err = tx.Exec(ctx,
			`UPDATE parking_locations SET available_spaces = $1, updated_at = $2 WHERE id = $3`,
			available, time.Now().UTC(), locationID)
		if err != nil {
			return err
		}

		return insertActivity(ctx, tx, activity)
	})
}

func (r *Repository) DeleteParkingLocation(
	ctx context.Context, locationID uuid.UUID, activity entity.Activity,
) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM parking_locations WHERE id = $1`, locationID)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return entity.ErrLocationNotFound
		}

		return insertActivity(ctx, tx, activity)
	})
}

func (r *Repository) ParkingLocationStats(ctx context.Context) (entity.LocationStats, error) {
	stats := entity.LocationStats{
		ByStatus: make(map[string]int),
	}

	rows, err := r.pool.Query(ctx,
		`SELECT status, count(*), COALESCE(SUM(total_spaces), 0), COALESCE(SUM(available_spaces), 0)
		 FROM parking_locations GROUP BY status`)
	if err != nil {
		return entity.LocationStats{}, err
	}

	defer rows.Close()

	for rows.Next() {
		var (
			status    string
			count     int
			total     int
			available int
		)

		if err := rows.Scan(&status, &count, &total, &available); err != nil {
			return entity.LocationStats{}, err
		}

		stats.Total += count
		stats.TotalSpaces += total
		stats.AvailableSpaces += available
		stats.ByStatus[status] += count
	}

	if err = rows.Err(); err != nil {
		return entity.LocationStats{}, err
	}

	return stats, nil
}
