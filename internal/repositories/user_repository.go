package repositories

import (
	"context"
	"time"

	"car-rental/internal/entities"
	"car-rental/internal/infrastructure/bd"
	"car-rental/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const userTable = "users"

var userColumns = []string{
	"u.id", "u.name", "u.surname", "u.license", "u.dob", "u.address",
	"u.email", "u.phone", "u.role", "u.password", "u.created_at", "u.updated_at",
}

var userMap = map[string]string{
	"id":         "u.id",
	"name":       "u.name",
	"surname":    "u.surname",
	"email":      "u.email",
	"role":       "u.role",
	"created_at": "u.created_at",
	"updated_at": "u.updated_at",
}

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	FindUser(ctx context.Context, id string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	CreateUser(ctx context.Context, user *entities.User) (*entities.User, error)
	UpdateUser(ctx context.Context, user *entities.User) (*entities.User, error)
	DeleteUser(ctx context.Context, id string) error
	// OwnerOf resolves a user profile to itself.
	OwnerOf(ctx context.Context, id string) (string, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
	psql    sq.StatementBuilderType
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{
		storage: storage,
		logger:  logger,
		psql:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Surname, &u.License, &u.DOB, &u.Address,
		&u.Email, &u.Phone, &u.Role, &u.Password, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search == "" {
			return b
		}
		pat := "%" + filter.Search + "%"
		return b.Where(sq.Or{
			sq.ILike{"u.name": pat},
			sq.ILike{"u.surname": pat},
			sq.ILike{"u.email": pat},
		})
	}

	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder := db.ApplyListParams(applySearch(r.psql.Select("COUNT(u.id)").From(userTable+" AS u")), countFilter, userMap)

	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, mapPgError(err, "user")
	}
	if total == 0 {
		return []entities.User{}, 0, nil
	}

	builder := applySearch(r.psql.Select(userColumns...).From(userTable + " AS u"))
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("u.created_at DESC")
	}
	builder = db.ApplyListParams(builder, filter, userMap)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	r.logger.Debug("users list", zap.String("query", query))

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapPgError(err, "user")
	}
	defer rows.Close()

	users := make([]entities.User, 0, filter.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, mapPgError(err, "user")
		}
		users = append(users, *u)
	}
	return users, total, mapPgError(rows.Err(), "user")
}

func (r *UserRepository) findOne(ctx context.Context, where sq.Sqlizer) (*entities.User, error) {
	query, args, err := r.psql.Select(userColumns...).From(userTable + " AS u").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	u, err := scanUser(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapPgError(err, "user")
	}
	return u, nil
}

func (r *UserRepository) FindUser(ctx context.Context, id string) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"u.id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, sq.Expr("lower(u.email) = lower(?)", email))
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entities.User) (*entities.User, error) {
	query, args, err := r.psql.Insert(userTable).
		Columns("name", "surname", "license", "dob", "address", "email", "phone", "role", "password").
		Values(user.Name, user.Surname, user.License, user.DOB, user.Address, user.Email, user.Phone, user.Role, user.Password).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	created := *user
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, mapPgError(err, "user")
	}
	return &created, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user *entities.User) (*entities.User, error) {
	query, args, err := r.psql.Update(userTable).
		SetMap(map[string]interface{}{
			"name":       user.Name,
			"surname":    user.Surname,
			"license":    user.License,
			"dob":        user.DOB,
			"address":    user.Address,
			"email":      user.Email,
			"phone":      user.Phone,
			"role":       user.Role,
			"password":   user.Password,
			"updated_at": time.Now(),
		}).
		Where(sq.Eq{"id": user.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	updated := *user
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&updated.UpdatedAt); err != nil {
		return nil, mapPgError(err, "user")
	}
	return &updated, nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	query, args, err := r.psql.Delete(userTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err, "user")
	}
	if tag.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows, "user")
	}
	return nil
}

func (r *UserRepository) OwnerOf(ctx context.Context, id string) (string, error) {
	var owner string
	err := r.storage.QueryRow(ctx, "SELECT id FROM users WHERE id = $1", id).Scan(&owner)
	if err != nil {
		return "", mapPgError(err, "user")
	}
	return owner, nil
}
