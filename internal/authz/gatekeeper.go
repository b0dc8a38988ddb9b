package authz

import (
	"context"
	"errors"

	apperrors "car-rental/pkg/errors"

	"go.uber.org/zap"
)

// OwnerResolver looks up the owner id of a resource instance.
// It returns an error matching apperrors.ErrNotFound when the resource does not exist.
type OwnerResolver interface {
	OwnerOf(ctx context.Context, resourceID string) (string, error)
}

// OwnerResolverFunc adapts a function to OwnerResolver.
type OwnerResolverFunc func(ctx context.Context, resourceID string) (string, error)

func (f OwnerResolverFunc) OwnerOf(ctx context.Context, resourceID string) (string, error) {
	return f(ctx, resourceID)
}

type Gatekeeper struct {
	logger *zap.Logger
}

func NewGatekeeper(logger *zap.Logger) *Gatekeeper {
	return &Gatekeeper{logger: logger}
}

// CheckRole passes when the actor's role is a member of the policy.
func (g *Gatekeeper) CheckRole(actor Actor, policy Policy) error {
	if policy.Allows(actor.Role) {
		return nil
	}
	return apperrors.ErrRoleMismatch.With(nil, map[string]interface{}{
		"userID": actor.ID,
		"role":   actor.Role.String(),
		"policy": policy.String(),
	})
}

// CheckOwnership resolves the owner first so a missing resource is reported
// as not found to everyone, admins included.
func (g *Gatekeeper) CheckOwnership(ctx context.Context, actor Actor, resourceID string, resolver OwnerResolver) error {
	if resourceID == "" {
		return apperrors.ErrResourceIDMissing
	}

	ownerID, err := resolver.OwnerOf(ctx, resourceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return apperrors.NewInfraError(err, map[string]interface{}{"resourceID": resourceID, "stage": "ownership"})
	}

	if actor.IsAdmin() || ownerID == actor.ID {
		return nil
	}

	g.logger.Debug("ownership denied",
		zap.String("userID", actor.ID),
		zap.String("resourceID", resourceID),
	)
	return apperrors.ErrNotOwner.With(nil, map[string]interface{}{
		"userID":     actor.ID,
		"resourceID": resourceID,
	})
}
