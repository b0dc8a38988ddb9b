package repositories

import (
	"context"
	"time"

	"car-rental/internal/entities"
	"car-rental/internal/infrastructure/bd"
	"car-rental/pkg/constants"
	"car-rental/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const rentTable = "rents"

var rentColumns = []string{
	"r.id", "r.car_id", "r.user_id", "r.date_in", "r.date_out", "r.price::float8", "r.status",
	"r.created_at", "r.updated_at",
}

var rentMap = map[string]string{
	"id":         "r.id",
	"car_id":     "r.car_id",
	"user_id":    "r.user_id",
	"status":     "r.status",
	"date_in":    "r.date_in",
	"date_out":   "r.date_out",
	"price":      "r.price",
	"created_at": "r.created_at",
}

type RentRepositoryInterface interface {
	GetRents(ctx context.Context, filter types.Filter) ([]entities.Rent, uint64, error)
	FindRent(ctx context.Context, id string) (*entities.Rent, error)
	FindRentForUpdate(ctx context.Context, tx pgx.Tx, id string) (*entities.Rent, error)
	HasActiveRent(ctx context.Context, tx pgx.Tx, carID string) (bool, error)
	CreateRent(ctx context.Context, tx pgx.Tx, rent *entities.Rent) (*entities.Rent, error)
	UpdateRent(ctx context.Context, tx pgx.Tx, rent *entities.Rent) (*entities.Rent, error)
	DeleteRent(ctx context.Context, id string) error
	// OwnerOf returns rents.user_id.
	OwnerOf(ctx context.Context, id string) (string, error)
}

type RentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
	psql    sq.StatementBuilderType
}

func NewRentRepository(storage *pgxpool.Pool, logger *zap.Logger) RentRepositoryInterface {
	return &RentRepository{
		storage: storage,
		logger:  logger,
		psql:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanRent(row pgx.Row) (*entities.Rent, error) {
	var r entities.Rent
	err := row.Scan(
		&r.ID, &r.CarID, &r.UserID, &r.DateIn, &r.DateOut, &r.Price, &r.Status,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *RentRepository) GetRents(ctx context.Context, filter types.Filter) ([]entities.Rent, uint64, error) {
	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	sqlCount, argsCount, err := db.ApplyListParams(r.psql.Select("COUNT(r.id)").From(rentTable+" AS r"), countFilter, rentMap).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, mapPgError(err, "rent")
	}
	if total == 0 {
		return []entities.Rent{}, 0, nil
	}

	builder := r.psql.Select(rentColumns...).From(rentTable + " AS r")
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("r.date_in DESC")
	}
	query, args, err := db.ApplyListParams(builder, filter, rentMap).ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapPgError(err, "rent")
	}
	defer rows.Close()

	rents := make([]entities.Rent, 0, filter.Limit)
	for rows.Next() {
		rent, err := scanRent(rows)
		if err != nil {
			return nil, 0, mapPgError(err, "rent")
		}
		rents = append(rents, *rent)
	}
	return rents, total, mapPgError(rows.Err(), "rent")
}

func (r *RentRepository) findOne(ctx context.Context, q Querier, id string, suffix string) (*entities.Rent, error) {
	builder := r.psql.Select(rentColumns...).From(rentTable + " AS r").Where(sq.Eq{"r.id": id})
	if suffix != "" {
		builder = builder.Suffix(suffix)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rent, err := scanRent(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapPgError(err, "rent")
	}
	return rent, nil
}

func (r *RentRepository) FindRent(ctx context.Context, id string) (*entities.Rent, error) {
	return r.findOne(ctx, r.storage, id, "")
}

func (r *RentRepository) FindRentForUpdate(ctx context.Context, tx pgx.Tx, id string) (*entities.Rent, error) {
	return r.findOne(ctx, getQuerier(r.storage, tx), id, "FOR UPDATE")
}

func (r *RentRepository) HasActiveRent(ctx context.Context, tx pgx.Tx, carID string) (bool, error) {
	var exists bool
	err := getQuerier(r.storage, tx).QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM rents WHERE car_id = $1 AND status = $2)",
		carID, int(constants.RentStatusActive),
	).Scan(&exists)
	if err != nil {
		return false, mapPgError(err, "rent")
	}
	return exists, nil
}

func (r *RentRepository) CreateRent(ctx context.Context, tx pgx.Tx, rent *entities.Rent) (*entities.Rent, error) {
	query, args, err := r.psql.Insert(rentTable).
		Columns("car_id", "user_id", "date_in", "date_out", "price", "status").
		Values(rent.CarID, rent.UserID, rent.DateIn, rent.DateOut, rent.Price, int(rent.Status)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	created := *rent
	err = getQuerier(r.storage, tx).QueryRow(ctx, query, args...).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err, "rent")
	}
	return &created, nil
}

func (r *RentRepository) UpdateRent(ctx context.Context, tx pgx.Tx, rent *entities.Rent) (*entities.Rent, error) {
	query, args, err := r.psql.Update(rentTable).
		SetMap(map[string]interface{}{
			"user_id":    rent.UserID,
			"date_in":    rent.DateIn,
			"date_out":   rent.DateOut,
			"price":      rent.Price,
			"status":     int(rent.Status),
			"updated_at": time.Now(),
		}).
		Where(sq.Eq{"id": rent.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	updated := *rent
	if err := getQuerier(r.storage, tx).QueryRow(ctx, query, args...).Scan(&updated.UpdatedAt); err != nil {
		return nil, mapPgError(err, "rent")
	}
	return &updated, nil
}

func (r *RentRepository) DeleteRent(ctx context.Context, id string) error {
	query, args, err := r.psql.Delete(rentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err, "rent")
	}
	if tag.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows, "rent")
	}
	return nil
}

func (r *RentRepository) OwnerOf(ctx context.Context, id string) (string, error) {
	var owner string
	err := r.storage.QueryRow(ctx, "SELECT user_id FROM rents WHERE id = $1", id).Scan(&owner)
	if err != nil {
		return "", mapPgError(err, "rent")
	}
	return owner, nil
}
