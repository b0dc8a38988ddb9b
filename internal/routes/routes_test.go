package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"car-rental/internal/authz"
	"car-rental/internal/dto"
	"car-rental/internal/entities"
	"car-rental/internal/services"
	"car-rental/pkg/config"
	"car-rental/pkg/constants"
	apperrors "car-rental/pkg/errors"
	"car-rental/pkg/service"
	"car-rental/pkg/types"
	"car-rental/pkg/validation"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type stubAuthService struct{}

func (stubAuthService) Login(context.Context, dto.LoginDTO) (*entities.User, error) {
	return nil, apperrors.ErrSecretMismatch
}

func (stubAuthService) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	return &entities.User{ID: id, Name: "Ana", Role: constants.RoleUser}, nil
}

// stubRentService answers only the lookups reached in these tests.
type stubRentService struct {
	services.RentServiceInterface
}

func (stubRentService) FindRent(_ context.Context, id string) (*dto.RentDTO, error) {
	return &dto.RentDTO{ID: id, UserID: "u2"}, nil
}

func (stubRentService) ReturnRent(_ context.Context, payload dto.ReturnRentDTO) (*dto.RentDTO, error) {
	return &dto.RentDTO{ID: payload.RentID, UserID: "u2", Status: int(constants.RentStatusReturned)}, nil
}

func (stubRentService) GetMyRents(context.Context, types.Filter) ([]dto.RentDTO, uint64, error) {
	return []dto.RentDTO{}, 0, nil
}

const (
	rentOfU2 = "9b2f3c1e-0d4a-4b7e-9a51-6f1c2d3e4a5b"
	noRent   = "00000000-0000-4000-8000-000000000000"
)

type RouterSuite struct {
	suite.Suite
	e   *echo.Echo
	jwt service.JWTService
}

func (s *RouterSuite) SetupTest() {
	logger := zap.NewNop()
	s.jwt = service.NewJWTService("router-secret", time.Hour, 24*time.Hour, logger)

	rentOwners := authz.OwnerResolverFunc(func(_ context.Context, id string) (string, error) {
		if id == rentOfU2 {
			return "u2", nil
		}
		return "", apperrors.NewNotFoundError("rent not found")
	})
	userOwners := authz.OwnerResolverFunc(func(_ context.Context, id string) (string, error) {
		return id, nil
	})

	s.e = echo.New()
	s.e.Validator = validation.New()
	InitRouter(s.e, Dependencies{
		AuthService: stubAuthService{},
		RentService: stubRentService{},
		UserOwners:  userOwners,
		RentOwners:  rentOwners,
		JWT:         s.jwt,
		Config: &config.Config{
			Auth:   config.AuthConfig{LoginRatePerSecond: 0.001, LoginRateBurst: 2},
			Upload: config.UploadConfig{Dir: s.T().TempDir()},
		},
		Logger: logger,
	})
}

func (s *RouterSuite) bearer(userID string, role constants.Role) string {
	access, _, err := s.jwt.GenerateTokens(userID, "Name", role)
	s.Require().NoError(err)
	return access
}

func (s *RouterSuite) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.RemoteAddr = "10.0.0.1:1234"
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var out map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func (s *RouterSuite) TestRoutesAreRegistered() {
	registered := make(map[string]bool)
	for _, r := range s.e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"POST /api/auth/login",
		"POST /api/auth/refresh",
		"POST /api/auth/logout",
		"GET /api/auth/me",
		"POST /api/users/register",
		"GET /api/users/:id",
		"GET /api/cars",
		"POST /api/cars/:id/picture",
		"GET /api/rents/export",
		"GET /api/rents/mine",
		"POST /api/rents/return",
		"DELETE /api/rents/:id",
	} {
		s.True(registered[want], want)
	}
}

func (s *RouterSuite) TestProtectedRouteWithoutToken() {
	rec, body := s.do(http.MethodGet, "/api/rents/mine", "", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("token not provided", body["message"])
}

func (s *RouterSuite) TestAdminRoutesRejectUsers() {
	user := s.bearer("u1", constants.RoleUser)
	for _, path := range []string{"/api/rents", "/api/rents/export", "/api/users"} {
		rec, body := s.do(http.MethodGet, path, user, nil)
		s.Equal(http.StatusForbidden, rec.Code, path)
		s.Equal("role-mismatch", body["code"], path)
	}
	rec, _ := s.do(http.MethodPost, "/api/cars", user, map[string]string{})
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *RouterSuite) TestRentOwnership() {
	rec, body := s.do(http.MethodGet, "/api/rents/"+rentOfU2, s.bearer("u1", constants.RoleUser), nil)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("not-owner", body["code"])

	rec, _ = s.do(http.MethodGet, "/api/rents/"+rentOfU2, s.bearer("u2", constants.RoleUser), nil)
	s.Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/rents/"+rentOfU2, s.bearer("a1", constants.RoleAdmin), nil)
	s.Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/rents/"+noRent, s.bearer("a1", constants.RoleAdmin), nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *RouterSuite) TestReturnChecksOwnershipFromBody() {
	payload := map[string]string{"rent_id": rentOfU2}

	rec, _ := s.do(http.MethodPost, "/api/rents/return", s.bearer("u1", constants.RoleUser), payload)
	s.Equal(http.StatusForbidden, rec.Code)

	rec, body := s.do(http.MethodPost, "/api/rents/return", s.bearer("u2", constants.RoleUser), payload)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(true, body["status"])
	returned, ok := body["body"].(map[string]interface{})
	s.Require().True(ok)
	s.Equal(rentOfU2, returned["id"])
}

func (s *RouterSuite) TestReturnRejectsCaseVariantRentID() {
	// encoding/json would bind the last variant, not the one the gate checked
	payload := map[string]string{"rent_id": rentOfU2, "RENT_ID": noRent}

	rec, body := s.do(http.MethodPost, "/api/rents/return", s.bearer("u2", constants.RoleUser), payload)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("ambiguous-resource-id", body["code"])
}

func (s *RouterSuite) TestLoginIsRateLimitedPerIP() {
	creds := map[string]string{"email": "ana@example.com", "password": "nope"}
	for i := 0; i < 2; i++ {
		rec, body := s.do(http.MethodPost, "/api/auth/login", "", creds)
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Equal("secret-mismatch", body["code"])
	}
	rec, body := s.do(http.MethodPost, "/api/auth/login", "", creds)
	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal("too-many-attempts", body["code"])
}

func (s *RouterSuite) TestMeReturnsProfile() {
	rec, body := s.do(http.MethodGet, "/api/auth/me", s.bearer("u7", constants.RoleUser), nil)
	s.Equal(http.StatusOK, rec.Code)
	profile, ok := body["body"].(map[string]interface{})
	s.Require().True(ok)
	s.Equal("u7", profile["id"])
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}
