package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"car-rental/internal/dto"
	"car-rental/internal/entities"
	apperrors "car-rental/pkg/errors"
	"car-rental/pkg/filestorage"
	"car-rental/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCarFixture(t *testing.T, cars ...*entities.Car) (CarServiceInterface, *fakeCarRepo, *fakeCache, string) {
	t.Helper()
	dir := t.TempDir()
	storage, err := filestorage.NewLocalFileStorage(dir)
	require.NoError(t, err)

	repo := newFakeCarRepo(cars...)
	cache := newFakeCache()
	return NewCarService(repo, cache, storage, time.Minute, zap.NewNop()), repo, cache, dir
}

func sampleCar() *entities.Car {
	return &entities.Car{ID: "c1", Make: "Skoda", Model: "Octavia", Plate: "AB123CD", Year: 2020, Colour: "white", Price: 40, Transmission: "manual"}
}

func TestFindCarIsCached(t *testing.T) {
	svc, repo, _, _ := newCarFixture(t, sampleCar())
	ctx := context.Background()

	first, err := svc.FindCar(ctx, "c1")
	require.NoError(t, err)
	second, err := svc.FindCar(ctx, "c1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.findCalls)
}

func TestUpdateCarInvalidatesCache(t *testing.T) {
	svc, repo, _, _ := newCarFixture(t, sampleCar())
	ctx := context.Background()

	_, err := svc.FindCar(ctx, "c1")
	require.NoError(t, err)
	_, _, err = svc.GetCars(ctx, types.Filter{Limit: 10})
	require.NoError(t, err)

	_, err = svc.UpdateCar(ctx, "c1", dto.UpdateCarDTO{Price: null.Float64From(55), Plate: null.StringFrom("ab 123 cd")})
	require.NoError(t, err)

	got, err := svc.FindCar(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 55.0, got.Price)
	assert.Equal(t, "AB123CD", got.Plate)

	list, _, err := svc.GetCars(ctx, types.Filter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 55.0, list[0].Price)
	assert.Equal(t, 2, repo.listCalls)
}

func TestGetCarsWorksWithoutCache(t *testing.T) {
	svc, repo, cache, _ := newCarFixture(t, sampleCar())
	cache.err = assert.AnError

	list, total, err := svc.GetCars(context.Background(), types.Filter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, 1, repo.listCalls)
}

func TestDeleteMissingCar(t *testing.T) {
	svc, _, _, _ := newCarFixture(t)
	err := svc.DeleteCar(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func multipartFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func TestUploadPicture(t *testing.T) {
	svc, repo, _, dir := newCarFixture(t, sampleCar())
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

	out, err := svc.UploadPicture(context.Background(), "c1", multipartFile(t, "car.png", png))
	require.NoError(t, err)
	require.NotNil(t, out.Picture)
	assert.True(t, strings.HasPrefix(*out.Picture, filestorage.PublicPrefix+"cars/"))
	assert.Equal(t, *out.Picture, repo.cars["c1"].Picture.String)

	_, err = os.Stat(filepath.Join(dir, strings.TrimPrefix(*out.Picture, filestorage.PublicPrefix)))
	assert.NoError(t, err)
}

func TestUploadPictureRejectsNonImage(t *testing.T) {
	svc, _, _, _ := newCarFixture(t, sampleCar())

	_, err := svc.UploadPicture(context.Background(), "c1", multipartFile(t, "car.png", []byte("plain text, not an image")))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
