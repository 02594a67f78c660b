package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/elimu-cd/elimu/core"
	"github.com/elimu-cd/elimu/core/user"
)

var userColumns = []string{
	"id", "name", "username", "email", "is_active", "roles",
	"student_id", "instructor_id", "password_hash", "created_at", "updated_at", "last_login",
}

// userRow mirrors the app_user table; roles and last_login need driver types
// the domain model does not carry.
type userRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	IsActive     bool           `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	StudentID    *int           `db:"student_id"`
	InstructorID *int           `db:"instructor_id"`
	PasswordHash []byte         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    sql.NullTime   `db:"last_login"`
}

func (row userRow) unpack() user.User {
	usr := user.User{
		ID:           row.ID,
		Name:         row.Name,
		Username:     row.Username,
		Email:        row.Email,
		IsActive:     row.IsActive,
		Roles:        row.Roles,
		StudentID:    row.StudentID,
		InstructorID: row.InstructorID,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if row.LastLogin.Valid {
		usr.LastLogin = row.LastLogin.Time
	}
	return usr
}

func unpackUsers(rows []userRow) []user.User {
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.unpack())
	}
	return users
}

type userRepository struct {
	db core.DBExecutor
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db core.DBExecutor) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUsernameUniqueness(
	ctx context.Context, username, email string, excludedUsers []user.User, exec ...core.DBExecutor,
) error {
	qb := sq.Select("username", "email").
		From("app_user").
		Where(sq.Or{sq.Eq{"username": username}, sq.Eq{"email": email}}).
		PlaceholderFormat(sq.Dollar)
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, usr.ID)
		}
		qb = qb.Where(sq.NotEq{"id": ids})
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return errors.Wrap(err, "building uniqueness query")
	}

	var rows []userRow
	if err = executor(repo.db, exec).SelectContext(ctx, &rows, query, args...); err != nil {
		return errors.Wrap(err, "checking username uniqueness")
	}
	for _, row := range rows {
		if username != "" && row.Username == username {
			return user.ErrUsernameExists
		}
		if email != "" && row.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO app_user (id, name, username, email, is_active, roles, student_id, instructor_id, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := executor(repo.db, exec).ExecContext(
		ctx, query,
		usr.ID, usr.Name, usr.Username, usr.Email, usr.IsActive, pq.StringArray(usr.Roles),
		usr.StudentID, usr.InstructorID, usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt,
	)
	if err != nil {
		return user.User{}, trapErr(err, "user")
	}
	return usr, nil
}

func (repo *userRepository) QueryUsers(
	ctx context.Context, filter *user.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor,
) ([]user.User, error) {
	qb := sq.Select(userColumns...).From("app_user").PlaceholderFormat(sq.Dollar)
	if filter != nil {
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			qb = qb.Where(sq.Or{
				sq.ILike{"name": pattern},
				sq.ILike{"username": pattern},
				sq.ILike{"email": pattern},
			})
		}
		if len(filter.Roles) > 0 {
			qb = qb.Where("roles && ?", pq.StringArray(filter.Roles))
		}
		if filter.IsActive != nil {
			qb = qb.Where(sq.Eq{"is_active": *filter.IsActive})
		}
		if !filter.CreatedFrom.IsZero() {
			qb = qb.Where(sq.GtOrEq{"created_at": filter.CreatedFrom})
		}
		if !filter.CreatedTo.IsZero() {
			qb = qb.Where(sq.LtOrEq{"created_at": filter.CreatedTo})
		}
	}
	if len(ordering) == 0 {
		qb = qb.OrderBy("created_at DESC")
	}
	for _, ord := range ordering {
		qb = qb.OrderBy(ord.String())
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building users query")
	}

	var rows []userRow
	if err = executor(repo.db, exec).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return unpackUsers(rows), nil
}

func (repo *userRepository) getUserBy(ctx context.Context, pred interface{}, exec []core.DBExecutor) (user.User, error) {
	query, args, err := sq.Select(userColumns...).
		From("app_user").
		Where(pred).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building user query")
	}

	var row userRow
	if err = executor(repo.db, exec).GetContext(ctx, &row, query, args...); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return row.unpack(), nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string, exec ...core.DBExecutor) (user.User, error) {
	return repo.getUserBy(ctx, sq.Eq{"id": id}, exec)
}

func (repo *userRepository) GetUserByUsername(ctx context.Context, username string, exec ...core.DBExecutor) (user.User, error) {
	return repo.getUserBy(ctx, sq.Eq{"username": username}, exec)
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (user.User, error) {
	return repo.getUserBy(ctx, sq.Eq{"email": email}, exec)
}

func (repo *userRepository) GetUserByUsernameOrEmail(ctx context.Context, username string, exec ...core.DBExecutor) (user.User, error) {
	return repo.getUserBy(ctx, sq.Or{sq.Eq{"username": username}, sq.Eq{"email": username}}, exec)
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool, exec ...core.DBExecutor) (user.User, error) {
	qb := sq.Update("app_user").
		Set("updated_at", usr.UpdatedAt).
		Where(sq.Eq{"id": usr.ID}).
		PlaceholderFormat(sq.Dollar)
	if usr.Name != "" {
		qb = qb.Set("name", usr.Name)
	}
	if usr.Username != "" {
		qb = qb.Set("username", usr.Username)
	}
	if usr.Email != "" {
		qb = qb.Set("email", usr.Email)
	}
	if usr.Roles != nil {
		qb = qb.Set("roles", pq.StringArray(usr.Roles))
	}
	if len(usr.PasswordHash) > 0 {
		qb = qb.Set("password_hash", usr.PasswordHash)
	}
	if isActive != nil {
		qb = qb.Set("is_active", *isActive)
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building user update")
	}

	ex := executor(repo.db, exec)
	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return user.User{}, trapErr(err, "user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(ctx, usr.ID, ex)
}

func (repo *userRepository) SetLastLogin(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	now := time.Now().UTC()
	const query = `UPDATE app_user SET last_login = $1 WHERE id = $2`
	if _, err := executor(repo.db, exec).ExecContext(ctx, query, now, usr.ID); err != nil {
		return user.User{}, errors.Wrap(err, "setting last login")
	}
	usr.LastLogin = now
	return usr, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sq.Delete("app_user").
		Where(sq.Eq{"id": ids}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building users delete")
	}
	_, err = executor(repo.db, exec).ExecContext(ctx, query, args...)
	return errors.Wrap(err, "deleting users")
}
