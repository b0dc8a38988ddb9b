package services

import (
	"context"
	"testing"
	"time"

	"car-rental/internal/dto"
	"car-rental/internal/entities"
	"car-rental/internal/events"
	"car-rental/pkg/constants"
	apperrors "car-rental/pkg/errors"
	"car-rental/pkg/eventbus"
	"car-rental/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var rentNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func newRentFixture(rents ...*entities.Rent) (*RentService, *fakeRentRepo, *eventbus.Bus) {
	rentRepo := newFakeRentRepo(rents...)
	carRepo := newFakeCarRepo(sampleCar())
	bus := eventbus.New(zap.NewNop())
	svc := NewRentService(fakeTx{}, rentRepo, carRepo, bus, zap.NewNop()).(*RentService)
	svc.now = func() time.Time { return rentNow }
	return svc, rentRepo, bus
}

func TestCreateRentForSelf(t *testing.T) {
	svc, repo, bus := newRentFixture()
	published := make(chan eventbus.Event, 1)
	bus.Subscribe(events.RentCreatedName, func(_ context.Context, e eventbus.Event) error {
		published <- e
		return nil
	})

	out, err := svc.CreateRent(ctxAs("u1", constants.RoleUser), dto.CreateRentDTO{CarID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "u1", out.UserID)
	assert.Equal(t, int(constants.RentStatusActive), out.Status)
	assert.Nil(t, out.DateOut)
	assert.Equal(t, rentNow, repo.rents[out.ID].DateIn)

	require.NoError(t, bus.Wait(context.Background()))
	ev := (<-published).(events.RentCreatedEvent)
	assert.Equal(t, out.ID, ev.RentID)
	assert.Equal(t, "Skoda Octavia (AB123CD)", ev.Car)
}

func TestCreateRentConflictsWhenCarIsRented(t *testing.T) {
	svc, _, _ := newRentFixture(&entities.Rent{ID: "r1", CarID: "c1", UserID: "u2", DateIn: rentNow, Status: constants.RentStatusActive})

	_, err := svc.CreateRent(ctxAs("u1", constants.RoleUser), dto.CreateRentDTO{CarID: "c1"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCreateRentAfterReturnIsAllowed(t *testing.T) {
	svc, _, _ := newRentFixture(&entities.Rent{ID: "r1", CarID: "c1", UserID: "u2", DateIn: rentNow, Status: constants.RentStatusReturned})

	_, err := svc.CreateRent(ctxAs("u1", constants.RoleUser), dto.CreateRentDTO{CarID: "c1"})
	assert.NoError(t, err)
}

func TestCreateRentForAnotherUser(t *testing.T) {
	svc, _, _ := newRentFixture()
	payload := dto.CreateRentDTO{CarID: "c1", UserID: null.StringFrom("u2")}

	_, err := svc.CreateRent(ctxAs("u1", constants.RoleUser), payload)
	assert.ErrorIs(t, err, apperrors.ErrRoleMismatch)

	out, err := svc.CreateRent(ctxAs("a1", constants.RoleAdmin), payload)
	require.NoError(t, err)
	assert.Equal(t, "u2", out.UserID)
}

func TestCreateRentUnknownCar(t *testing.T) {
	svc, _, _ := newRentFixture()
	_, err := svc.CreateRent(ctxAs("u1", constants.RoleUser), dto.CreateRentDTO{CarID: "missing"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReturnRentChargesStartedDays(t *testing.T) {
	dateIn := rentNow.Add(-49 * time.Hour)
	svc, repo, _ := newRentFixture(&entities.Rent{ID: "r1", CarID: "c1", UserID: "u1", DateIn: dateIn, Status: constants.RentStatusActive})

	out, err := svc.ReturnRent(ctxAs("u1", constants.RoleUser), dto.ReturnRentDTO{RentID: "r1"})
	require.NoError(t, err)
	require.NotNil(t, out.Price)
	assert.Equal(t, 120.0, *out.Price)
	assert.Equal(t, int(constants.RentStatusReturned), out.Status)
	assert.Equal(t, rentNow, repo.rents["r1"].DateOut.Time)

	_, err = svc.ReturnRent(ctxAs("u1", constants.RoleUser), dto.ReturnRentDTO{RentID: "r1"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestChargeForMinimumOneDay(t *testing.T) {
	assert.Equal(t, 40.0, entities.ChargeFor(rentNow, rentNow.Add(time.Minute), 40))
	assert.Equal(t, 40.0, entities.ChargeFor(rentNow, rentNow, 40))
	assert.Equal(t, 80.0, entities.ChargeFor(rentNow, rentNow.Add(25*time.Hour), 40))
}

func TestGetMyRentsIgnoresForeignFilter(t *testing.T) {
	svc, repo, _ := newRentFixture(
		&entities.Rent{ID: "r1", CarID: "c1", UserID: "u1", DateIn: rentNow, Status: constants.RentStatusReturned},
		&entities.Rent{ID: "r2", CarID: "c1", UserID: "u2", DateIn: rentNow, Status: constants.RentStatusActive},
	)

	rents, total, err := svc.GetMyRents(ctxAs("u1", constants.RoleUser), types.Filter{Filter: map[string]interface{}{"user_id": "u2"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rents, 1)
	assert.Equal(t, "r1", rents[0].ID)
	assert.Equal(t, "u1", repo.lastFilter.Filter["user_id"])
}

func TestUpdateRentValidatesDates(t *testing.T) {
	svc, _, _ := newRentFixture(&entities.Rent{ID: "r1", CarID: "c1", UserID: "u1", DateIn: rentNow, Status: constants.RentStatusActive})

	_, err := svc.UpdateRent(context.Background(), "r1", dto.UpdateRentDTO{DateOut: null.TimeFrom(rentNow.Add(-time.Hour))})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	out, err := svc.UpdateRent(context.Background(), "r1", dto.UpdateRentDTO{
		DateOut: null.TimeFrom(rentNow.Add(time.Hour)),
		Status:  null.IntFrom(int(constants.RentStatusCancelled)),
	})
	require.NoError(t, err)
	assert.Equal(t, int(constants.RentStatusCancelled), out.Status)
}

func TestUpdateRentReactivationConflicts(t *testing.T) {
	svc, _, _ := newRentFixture(
		&entities.Rent{ID: "r1", CarID: "c1", UserID: "u1", DateIn: rentNow, Status: constants.RentStatusReturned},
		&entities.Rent{ID: "r2", CarID: "c1", UserID: "u2", DateIn: rentNow, Status: constants.RentStatusActive},
	)

	_, err := svc.UpdateRent(context.Background(), "r1", dto.UpdateRentDTO{Status: null.IntFrom(int(constants.RentStatusActive))})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestDeleteRent(t *testing.T) {
	svc, repo, _ := newRentFixture(&entities.Rent{ID: "r1", CarID: "c1", UserID: "u1", DateIn: rentNow, Status: constants.RentStatusActive})

	require.NoError(t, svc.DeleteRent(context.Background(), "r1"))
	assert.Empty(t, repo.rents)
	assert.ErrorIs(t, svc.DeleteRent(context.Background(), "r1"), apperrors.ErrNotFound)
}

func TestExportRentsWritesWorkbook(t *testing.T) {
	svc, repo, _ := newRentFixture(&entities.Rent{
		ID: "r1", CarID: "c1", UserID: "u1", DateIn: rentNow,
		DateOut: null.TimeFrom(rentNow.Add(24 * time.Hour)), Price: null.Float64From(40),
		Status: constants.RentStatusReturned,
	})

	buf, err := svc.ExportRents(context.Background(), types.Filter{WithPagination: true, Limit: 1})
	require.NoError(t, err)
	assert.False(t, repo.lastFilter.WithPagination)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Rents")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, rentExportHeaders, rows[0])
	assert.Equal(t, "r1", rows[1][0])
	assert.Equal(t, "returned", rows[1][6])
}
