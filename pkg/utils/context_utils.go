package utils

import (
	"context"

	"car-rental/internal/dto"
	"car-rental/pkg/contextkeys"
	apperrors "car-rental/pkg/errors"
)

func GetClaimsFromContext(ctx context.Context) (*dto.UserClaims, error) {
	claims, ok := ctx.Value(contextkeys.ClaimsKey).(*dto.UserClaims)
	if !ok || claims == nil {
		return nil, apperrors.ErrTokenMissing
	}
	return claims, nil
}

// ResourceIDFromContext returns the id approved by the ownership gate.
func ResourceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextkeys.ResourceIDKey).(string)
	return id, ok && id != ""
}

func WithClaims(ctx context.Context, claims *dto.UserClaims) context.Context {
	ctx = context.WithValue(ctx, contextkeys.ClaimsKey, claims)
	ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
	return context.WithValue(ctx, contextkeys.UserRoleKey, claims.Role)
}
