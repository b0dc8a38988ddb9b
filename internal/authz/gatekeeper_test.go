package authz

import (
	"context"
	"errors"
	"testing"

	"car-rental/pkg/constants"
	apperrors "car-rental/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ownersMap(owners map[string]string) OwnerResolver {
	return OwnerResolverFunc(func(_ context.Context, id string) (string, error) {
		owner, ok := owners[id]
		if !ok {
			return "", apperrors.NewNotFoundError("rent not found")
		}
		return owner, nil
	})
}

func TestPolicyMembershipIsExact(t *testing.T) {
	userOnly := NewPolicy("user-only", constants.RoleUser)
	cases := []struct {
		policy Policy
		role   constants.Role
		allow  bool
	}{
		{AdminOnly, constants.RoleAdmin, true},
		{AdminOnly, constants.RoleUser, false},
		{userOnly, constants.RoleUser, true},
		{userOnly, constants.RoleAdmin, false},
		{AnyRole, constants.RoleAdmin, true},
		{AnyRole, constants.RoleUser, true},
		{AnyRole, constants.Role("guest"), false},
	}
	for _, tc := range cases {
		t.Run(tc.policy.Name()+"/"+tc.role.String(), func(t *testing.T) {
			assert.Equal(t, tc.allow, tc.policy.Allows(tc.role))
		})
	}
}

func TestCheckRole(t *testing.T) {
	g := NewGatekeeper(zap.NewNop())

	assert.NoError(t, g.CheckRole(Actor{ID: "a1", Role: constants.RoleAdmin}, AdminOnly))

	err := g.CheckRole(Actor{ID: "u1", Role: constants.RoleUser}, AdminOnly)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRoleMismatch)

	var httpErr *apperrors.HttpError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 403, httpErr.Code)
	assert.Equal(t, "role-mismatch", httpErr.Reason)
}

func TestCheckOwnership(t *testing.T) {
	g := NewGatekeeper(zap.NewNop())
	resolver := ownersMap(map[string]string{"r1": "u2"})
	ctx := context.Background()

	t.Run("owner passes", func(t *testing.T) {
		assert.NoError(t, g.CheckOwnership(ctx, Actor{ID: "u2", Role: constants.RoleUser}, "r1", resolver))
	})

	t.Run("other user is rejected", func(t *testing.T) {
		err := g.CheckOwnership(ctx, Actor{ID: "u1", Role: constants.RoleUser}, "r1", resolver)
		assert.ErrorIs(t, err, apperrors.ErrNotOwner)
	})

	t.Run("admin bypasses ownership", func(t *testing.T) {
		assert.NoError(t, g.CheckOwnership(ctx, Actor{ID: "a1", Role: constants.RoleAdmin}, "r1", resolver))
	})

	t.Run("missing resource is not found for admins too", func(t *testing.T) {
		err := g.CheckOwnership(ctx, Actor{ID: "a1", Role: constants.RoleAdmin}, "r404", resolver)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NotErrorIs(t, err, apperrors.ErrNotOwner)
	})

	t.Run("empty id", func(t *testing.T) {
		err := g.CheckOwnership(ctx, Actor{ID: "u1", Role: constants.RoleUser}, "", resolver)
		assert.ErrorIs(t, err, apperrors.ErrResourceIDMissing)
	})

	t.Run("storage failure is infra", func(t *testing.T) {
		broken := OwnerResolverFunc(func(context.Context, string) (string, error) {
			return "", errors.New("connection reset")
		})
		err := g.CheckOwnership(ctx, Actor{ID: "u1", Role: constants.RoleUser}, "r1", broken)
		assert.ErrorIs(t, err, apperrors.ErrInternalServer)
	})
}

func TestStageAdvance(t *testing.T) {
	s := StageUnauthenticated
	var path []Stage
	for !s.Terminal() {
		s = s.Advance()
		path = append(path, s)
	}
	assert.Equal(t, []Stage{StageTokenVerified, StageRoleChecked, StageOwnershipChecked, StageAuthorized}, path)
	assert.Equal(t, StageRejected, StageRejected.Advance())
}
