package repositories

import (
	"context"
	"time"

	"car-rental/internal/entities"
	"car-rental/internal/infrastructure/bd"
	"car-rental/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const carTable = "cars"

var carColumns = []string{
	"c.id", "c.make", "c.model", "c.plate", "c.year", "c.hp", "c.cc", "c.colour", "c.seats",
	"c.price::float8", "c.transmission", "c.description", "c.picture", "c.created_at", "c.updated_at",
}

var carMap = map[string]string{
	"id":           "c.id",
	"make":         "c.make",
	"model":        "c.model",
	"plate":        "c.plate",
	"year":         "c.year",
	"colour":       "c.colour",
	"seats":        "c.seats",
	"price":        "c.price",
	"transmission": "c.transmission",
	"created_at":   "c.created_at",
}

type CarRepositoryInterface interface {
	GetCars(ctx context.Context, filter types.Filter) ([]entities.Car, uint64, error)
	FindCar(ctx context.Context, id string) (*entities.Car, error)
	// FindCarForUpdate locks the row until tx ends.
	FindCarForUpdate(ctx context.Context, tx pgx.Tx, id string) (*entities.Car, error)
	CreateCar(ctx context.Context, car *entities.Car) (*entities.Car, error)
	UpdateCar(ctx context.Context, car *entities.Car) (*entities.Car, error)
	UpdatePicture(ctx context.Context, id string, picture string) error
	DeleteCar(ctx context.Context, id string) error
}

type CarRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
	psql    sq.StatementBuilderType
}

func NewCarRepository(storage *pgxpool.Pool, logger *zap.Logger) CarRepositoryInterface {
	return &CarRepository{
		storage: storage,
		logger:  logger,
		psql:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanCar(row pgx.Row) (*entities.Car, error) {
	var c entities.Car
	err := row.Scan(
		&c.ID, &c.Make, &c.Model, &c.Plate, &c.Year, &c.HP, &c.CC, &c.Colour, &c.Seats,
		&c.Price, &c.Transmission, &c.Description, &c.Picture, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CarRepository) GetCars(ctx context.Context, filter types.Filter) ([]entities.Car, uint64, error) {
	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search == "" {
			return b
		}
		pat := "%" + filter.Search + "%"
		return b.Where(sq.Or{
			sq.ILike{"c.make": pat},
			sq.ILike{"c.model": pat},
			sq.ILike{"c.plate": pat},
		})
	}

	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	sqlCount, argsCount, err := db.ApplyListParams(applySearch(r.psql.Select("COUNT(c.id)").From(carTable+" AS c")), countFilter, carMap).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, mapPgError(err, "car")
	}
	if total == 0 {
		return []entities.Car{}, 0, nil
	}

	builder := applySearch(r.psql.Select(carColumns...).From(carTable + " AS c"))
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("c.make ASC", "c.model ASC")
	}
	query, args, err := db.ApplyListParams(builder, filter, carMap).ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapPgError(err, "car")
	}
	defer rows.Close()

	cars := make([]entities.Car, 0, filter.Limit)
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, 0, mapPgError(err, "car")
		}
		cars = append(cars, *c)
	}
	return cars, total, mapPgError(rows.Err(), "car")
}

func (r *CarRepository) findOne(ctx context.Context, q Querier, id string, suffix string) (*entities.Car, error) {
	builder := r.psql.Select(carColumns...).From(carTable + " AS c").Where(sq.Eq{"c.id": id})
	if suffix != "" {
		builder = builder.Suffix(suffix)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	c, err := scanCar(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapPgError(err, "car")
	}
	return c, nil
}

func (r *CarRepository) FindCar(ctx context.Context, id string) (*entities.Car, error) {
	return r.findOne(ctx, r.storage, id, "")
}

func (r *CarRepository) FindCarForUpdate(ctx context.Context, tx pgx.Tx, id string) (*entities.Car, error) {
	return r.findOne(ctx, getQuerier(r.storage, tx), id, "FOR UPDATE")
}

func (r *CarRepository) CreateCar(ctx context.Context, car *entities.Car) (*entities.Car, error) {
	query, args, err := r.psql.Insert(carTable).
		Columns("make", "model", "plate", "year", "hp", "cc", "colour", "seats", "price", "transmission", "description", "picture").
		Values(car.Make, car.Model, car.Plate, car.Year, car.HP, car.CC, car.Colour, car.Seats, car.Price, car.Transmission, car.Description, car.Picture).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	created := *car
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, mapPgError(err, "car")
	}
	return &created, nil
}

func (r *CarRepository) UpdateCar(ctx context.Context, car *entities.Car) (*entities.Car, error) {
	query, args, err := r.psql.Update(carTable).
		SetMap(map[string]interface{}{
			"make":         car.Make,
			"model":        car.Model,
			"plate":        car.Plate,
			"year":         car.Year,
			"hp":           car.HP,
			"cc":           car.CC,
			"colour":       car.Colour,
			"seats":        car.Seats,
			"price":        car.Price,
			"transmission": car.Transmission,
			"description":  car.Description,
			"updated_at":   time.Now(),
		}).
		Where(sq.Eq{"id": car.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	updated := *car
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&updated.UpdatedAt); err != nil {
		return nil, mapPgError(err, "car")
	}
	return &updated, nil
}

func (r *CarRepository) UpdatePicture(ctx context.Context, id string, picture string) error {
	query, args, err := r.psql.Update(carTable).
		Set("picture", null.StringFrom(picture)).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err, "car")
	}
	if tag.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows, "car")
	}
	return nil
}

func (r *CarRepository) DeleteCar(ctx context.Context, id string) error {
	query, args, err := r.psql.Delete(carTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err, "car")
	}
	if tag.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows, "car")
	}
	return nil
}
