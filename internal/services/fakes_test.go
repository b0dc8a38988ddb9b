package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"car-rental/internal/dto"
	"car-rental/internal/entities"
	"car-rental/internal/repositories"
	"car-rental/pkg/constants"
	apperrors "car-rental/pkg/errors"
	"car-rental/pkg/types"
	"car-rental/pkg/utils"

	"github.com/jackc/pgx/v5"
)

func ctxAs(userID string, role constants.Role) context.Context {
	return utils.WithClaims(context.Background(), &dto.UserClaims{UserID: userID, Name: "Test", Role: role})
}

type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	default:
		c.data[key] = fmt.Sprint(v)
	}
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	v, ok := c.data[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	n, _ := strconv.ParseInt(c.data[key], 10, 64)
	n++
	c.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (c *fakeCache) Expire(_ context.Context, key string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, c.err
}

type fakeUserRepo struct {
	users map[string]*entities.User
	seq   int
}

func newFakeUserRepo(users ...*entities.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entities.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetUsers(_ context.Context, _ types.Filter) ([]entities.User, uint64, error) {
	out := make([]entities.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeUserRepo) FindUser(_ context.Context, id string) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *entities.User) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, apperrors.NewConflictError("e-mail already registered")
		}
	}
	r.seq++
	cp := *user
	cp.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[cp.ID] = &cp
	return &cp, nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, user *entities.User) (*entities.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	cp := *user
	r.users[user.ID] = &cp
	return &cp, nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return apperrors.NewNotFoundError("user not found")
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) OwnerOf(ctx context.Context, id string) (string, error) {
	u, err := r.FindUser(ctx, id)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

type fakeCarRepo struct {
	cars      map[string]*entities.Car
	listCalls int
	findCalls int
	seq       int
}

func newFakeCarRepo(cars ...*entities.Car) *fakeCarRepo {
	r := &fakeCarRepo{cars: make(map[string]*entities.Car)}
	for _, c := range cars {
		r.cars[c.ID] = c
	}
	return r
}

func (r *fakeCarRepo) GetCars(_ context.Context, _ types.Filter) ([]entities.Car, uint64, error) {
	r.listCalls++
	out := make([]entities.Car, 0, len(r.cars))
	for _, c := range r.cars {
		out = append(out, *c)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeCarRepo) FindCar(_ context.Context, id string) (*entities.Car, error) {
	r.findCalls++
	c, ok := r.cars[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("car not found")
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCarRepo) FindCarForUpdate(ctx context.Context, _ pgx.Tx, id string) (*entities.Car, error) {
	return r.FindCar(ctx, id)
}

func (r *fakeCarRepo) CreateCar(_ context.Context, car *entities.Car) (*entities.Car, error) {
	r.seq++
	cp := *car
	cp.ID = fmt.Sprintf("car-%d", r.seq)
	r.cars[cp.ID] = &cp
	return &cp, nil
}

func (r *fakeCarRepo) UpdateCar(_ context.Context, car *entities.Car) (*entities.Car, error) {
	cp := *car
	r.cars[car.ID] = &cp
	return &cp, nil
}

func (r *fakeCarRepo) UpdatePicture(_ context.Context, id string, picture string) error {
	c, ok := r.cars[id]
	if !ok {
		return apperrors.NewNotFoundError("car not found")
	}
	c.Picture.SetValid(picture)
	return nil
}

func (r *fakeCarRepo) DeleteCar(_ context.Context, id string) error {
	if _, ok := r.cars[id]; !ok {
		return apperrors.NewNotFoundError("car not found")
	}
	delete(r.cars, id)
	return nil
}

type fakeRentRepo struct {
	rents      map[string]*entities.Rent
	lastFilter types.Filter
	seq        int
}

func newFakeRentRepo(rents ...*entities.Rent) *fakeRentRepo {
	r := &fakeRentRepo{rents: make(map[string]*entities.Rent)}
	for _, rent := range rents {
		r.rents[rent.ID] = rent
	}
	return r
}

func (r *fakeRentRepo) GetRents(_ context.Context, filter types.Filter) ([]entities.Rent, uint64, error) {
	r.lastFilter = filter
	out := make([]entities.Rent, 0, len(r.rents))
	for _, rent := range r.rents {
		if uid, ok := filter.Filter["user_id"]; ok && uid != rent.UserID {
			continue
		}
		out = append(out, *rent)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeRentRepo) FindRent(_ context.Context, id string) (*entities.Rent, error) {
	rent, ok := r.rents[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("rent not found")
	}
	cp := *rent
	return &cp, nil
}

func (r *fakeRentRepo) FindRentForUpdate(ctx context.Context, _ pgx.Tx, id string) (*entities.Rent, error) {
	return r.FindRent(ctx, id)
}

func (r *fakeRentRepo) HasActiveRent(_ context.Context, _ pgx.Tx, carID string) (bool, error) {
	for _, rent := range r.rents {
		if rent.CarID == carID && rent.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRentRepo) CreateRent(_ context.Context, _ pgx.Tx, rent *entities.Rent) (*entities.Rent, error) {
	r.seq++
	cp := *rent
	cp.ID = fmt.Sprintf("rent-%d", r.seq)
	r.rents[cp.ID] = &cp
	return &cp, nil
}

func (r *fakeRentRepo) UpdateRent(_ context.Context, _ pgx.Tx, rent *entities.Rent) (*entities.Rent, error) {
	cp := *rent
	r.rents[rent.ID] = &cp
	return &cp, nil
}

func (r *fakeRentRepo) DeleteRent(_ context.Context, id string) error {
	if _, ok := r.rents[id]; !ok {
		return apperrors.NewNotFoundError("rent not found")
	}
	delete(r.rents, id)
	return nil
}

func (r *fakeRentRepo) OwnerOf(ctx context.Context, id string) (string, error) {
	rent, err := r.FindRent(ctx, id)
	if err != nil {
		return "", err
	}
	return rent.UserID, nil
}
