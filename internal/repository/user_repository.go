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

const userColumns = `id, full_name, email, phone, id_card, password_hash, department, position, address,
		badge_number, rank, station, avatar, role, portal, status, password_reset_required, created_at, last_login`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User

	err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.Phone,
		&user.IDCard,
		&user.PasswordHash,
		&user.Department,
		&user.Position,
		&user.Address,
		&user.BadgeNumber,
		&user.Rank,
		&user.Station,
		&user.Avatar,
		&user.Role,
		&user.Portal,
		&user.Status,
		&user.PasswordResetRequired,
		&user.CreatedAt,
		&user.LastLogin,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrUserNotFound
		}

		return nil, err
	}

	return &user, nil
}

const insertUserQuery = `
	INSERT INTO users (
		id, full_name, email, phone, id_card, password_hash, department, position, address,
		badge_number, rank, station, avatar, role, portal, status, password_reset_required
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

func insertUser(ctx context.Context, tx pgx.Tx, user *entity.User) error {
	_, err := tx.Exec(ctx, insertUserQuery,
		user.ID,
		user.FullName,
		user.Email,
		user.Phone,
		user.IDCard,
		user.PasswordHash,
		user.Department,
		user.Position,
		user.Address,
		user.BadgeNumber,
		user.Rank,
		user.Station,
		user.Avatar,
		user.Role,
		user.Portal,
		user.Status,
		user.PasswordResetRequired,
	)

	if err != nil {
		return mapUserConstraint(err)
	}

	return nil
}

func (r *Repository) CreateUser(ctx context.Context, user *entity.User, activity entity.Activity) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}

		return insertActivity(ctx, tx, activity)
	})
}

func (r *Repository) UserByID(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, userID))
}

func (r *Repository) UserByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *Repository) ExistsUserByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`

	var exists bool
	err := r.pool.QueryRow(ctx, query, email).Scan(&exists)

	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *Repository) ExistsUserByIDCard(ctx context.Context, idCard string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id_card = $1)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, idCard).Scan(&exists)

	if err != nil {
		return false, err
	}

	return exists, nil
}

type UserFilter struct {
	Role   entity.Role
	Portal entity.Portal
	Status entity.UserStatus
	Page   uint64
	Limit  uint64
}

func (r *Repository) Users(ctx context.Context, filter UserFilter) ([]entity.User, int, error) {
	where := sq.And{}

	if filter.Role != "" {
		where = append(where, sq.Eq{"role": filter.Role})
	}

	if filter.Portal != "" {
		where = append(where, sq.Eq{"portal": filter.Portal})
	}

	if filter.Status != "" {
		where = append(where, sq.Eq{"status": filter.Status})
	}

	countStmt := sq.Select("count(*)").From("users").PlaceholderFormat(sq.Dollar)
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
		"id", "full_name", "email", "phone", "id_card", "password_hash", "department", "position",
		"address", "badge_number", "rank", "station", "avatar", "role", "portal", "status",
		"password_reset_required", "created_at", "last_login",
	).From("users").
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

	users := make([]entity.User, 0, filter.Limit)

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}

		users = append(users, *user)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return users, count, nil
}

const updateUserQuery = `
	UPDATE users SET
		full_name = $2,
		email = $3,
		phone = $4,
		id_card = $5,
		department = $6,
		position = $7,
		address = $8,
		badge_number = $9,
		rank = $10,
		station = $11,
		avatar = $12
	WHERE id = $1`

func (r *Repository) UpdateUser(ctx context.Context, user *entity.User, activity entity.Activity) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateUserQuery,
			user.ID,
			user.FullName,
			user.Email,
			user.Phone,
			user.IDCard,
			user.Department,
			user.Position,
			user.Address,
			user.BadgeNumber,
			user.Rank,
			user.Station,
			user.Avatar,
		)
		if err != nil {
			return mapUserConstraint(err)
		}

		if tag.RowsAffected() == 0 {
			return entity.ErrUserNotFound
		}

		return insertActivity(ctx, tx, activity)
	})
}

func (r *Repository) UpdateUserStatus(
	ctx context.Context, userID uuid.UUID, status entity.UserStatus, activity entity.Activity,
) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE users SET status = $1 WHERE id = $2`, status, userID)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return entity.ErrUserNotFound
		}

		return insertActivity(ctx, tx, activity)
	})
}

func (r *Repository) UpdateUserPassword(
	ctx context.Context, userID uuid.UUID, passwordHash string, activity entity.Activity,
) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE users SET password_hash = $1, password_reset_required = FALSE WHERE id = $2`,
			passwordHash, userID)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return entity.ErrUserNotFound
		}

		return insertActivity(ctx, tx, activity)
	})
}

func (r *Repository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at, userID)
	return err
}

func (r *Repository) DeleteUser(ctx context.Context, userID uuid.UUID, activity entity.Activity) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return entity.ErrUserNotFound
		}

		return insertActivity(ctx, tx, activity)
	})
}

func (r *Repository) UserStats(ctx context.Context) (entity.UserStats, error) {
	stats := entity.UserStats{
		UsersByRole:   make(map[string]int),
		UsersByPortal: make(map[string]int),
	}

	err := r.pool.QueryRow(ctx,
		`SELECT count(*), count(*) FILTER (WHERE status = 'active') FROM users`,
	).Scan(&stats.TotalUsers, &stats.ActiveUsers)
	if err != nil {
		return entity.UserStats{}, err
	}

	rows, err := r.pool.Query(ctx, `SELECT role, count(*) FROM users GROUP BY role`)
	if err != nil {
		return entity.UserStats{}, err
	}

	defer rows.Close()

	for rows.Next() {
		var (
			role  string
			count int
		)

		if err := rows.Scan(&role, &count); err != nil {
			return entity.UserStats{}, err
		}

		stats.UsersByRole[role] = count
	}

	if err = rows.Err(); err != nil {
		return entity.UserStats{}, err
	}

	portalRows, err := r.pool.Query(ctx, `SELECT portal, count(*) FROM users GROUP BY portal`)
	if err != nil {
		return entity.UserStats{}, err
	}

	defer portalRows.Close()

	for portalRows.Next() {
		var (
			portal string
			count  int
		)

		if err := portalRows.Scan(&portal, &count); err != nil {
			return entity.UserStats{}, err
		}

		stats.UsersByPortal[portal] = count
	}

	if err = portalRows.Err(); err != nil {
		return entity.UserStats{}, err
	}

	return stats, nil
}
