package services

import (
	"context"
	"strings"
	"time"

	"car-rental/internal/dto"
	"car-rental/internal/entities"
	"car-rental/internal/events"
	"car-rental/internal/repositories"
	"car-rental/pkg/constants"
	apperrors "car-rental/pkg/errors"
	"car-rental/pkg/eventbus"
	"car-rental/pkg/types"
	"car-rental/pkg/utils"

	"go.uber.org/zap"
)

type UserServiceInterface interface {
	Register(ctx context.Context, payload dto.RegisterUserDTO) (*dto.UserDTO, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error)
	GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error)
	FindUser(ctx context.Context, id string) (*dto.UserDTO, error)
	UpdateUser(ctx context.Context, id string, payload dto.UpdateUserDTO) (*dto.UserDTO, error)
	DeleteUser(ctx context.Context, id string) error
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
	bus      *eventbus.Bus
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepositoryInterface, bus *eventbus.Bus, logger *zap.Logger) UserServiceInterface {
	return &UserService{userRepo: userRepo, bus: bus, logger: logger}
}

func newUserEntity(payload dto.RegisterUserDTO, role constants.Role) (*entities.User, error) {
	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, apperrors.NewInfraError(err, nil)
	}
	return &entities.User{
		Name:     strings.TrimSpace(payload.Name),
		Surname:  strings.TrimSpace(payload.Surname),
		License:  payload.License,
		DOB:      payload.DOB,
		Address:  payload.Address,
		Email:    strings.ToLower(strings.TrimSpace(payload.Email)),
		Phone:    payload.Phone,
		Role:     role,
		Password: hash,
	}, nil
}

// Register is the public sign-up. The role is always user.
func (s *UserService) Register(ctx context.Context, payload dto.RegisterUserDTO) (*dto.UserDTO, error) {
	user, err := newUserEntity(payload, constants.RoleUser)
	if err != nil {
		return nil, err
	}
	created, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("userID", created.ID))
	s.bus.Publish(ctx, events.UserRegisteredEvent{UserID: created.ID, UserName: created.Name, Email: created.Email})

	out := dto.UserToDTO(created)
	return &out, nil
}

func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error) {
	user, err := newUserEntity(payload.RegisterUserDTO, constants.Role(payload.Role))
	if err != nil {
		return nil, err
	}
	created, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", zap.String("userID", created.ID), zap.String("role", created.Role.String()))

	out := dto.UserToDTO(created)
	return &out, nil
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error) {
	users, total, err := s.userRepo.GetUsers(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		out = append(out, dto.UserToDTO(&users[i]))
	}
	return out, total, nil
}

func (s *UserService) FindUser(ctx context.Context, id string) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.UserToDTO(user)
	return &out, nil
}

// UpdateUser applies a partial update. Only admins may change a role.
func (s *UserService) UpdateUser(ctx context.Context, id string, payload dto.UpdateUserDTO) (*dto.UserDTO, error) {
	claims, err := utils.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Role.Valid && constants.Role(payload.Role.String) != user.Role {
		if !claims.IsAdmin() {
			return nil, apperrors.ErrRoleMismatch.With(nil, map[string]interface{}{
				"userID": claims.UserID,
				"target": id,
				"action": "change-role",
			})
		}
		user.Role = constants.Role(payload.Role.String)
	}

	if payload.Name.Valid {
		user.Name = strings.TrimSpace(payload.Name.String)
	}
	if payload.Surname.Valid {
		user.Surname = strings.TrimSpace(payload.Surname.String)
	}
	if payload.License.Valid {
		user.License = payload.License
	}
	if payload.DOB.Valid {
		user.DOB = payload.DOB
	}
	if payload.Address.Valid {
		user.Address = payload.Address
	}
	if payload.Email.Valid {
		user.Email = strings.ToLower(strings.TrimSpace(payload.Email.String))
	}
	if payload.Phone.Valid {
		user.Phone = payload.Phone
	}
	if payload.Password.Valid {
		hash, err := utils.HashPassword(payload.Password.String)
		if err != nil {
			return nil, apperrors.NewInfraError(err, nil)
		}
		user.Password = hash
	}
	user.Touch(time.Now())

	updated, err := s.userRepo.UpdateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user updated", zap.String("userID", id), zap.String("by", claims.UserID))

	out := dto.UserToDTO(updated)
	return &out, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.userRepo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.String("userID", id))
	return nil
}
