package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"github.com/sangkips/orderdesk-api/pkg/apperror"
	"github.com/sangkips/orderdesk-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateRole(t *testing.T) {
	target := entity.User{ID: uuid.New(), Email: "rep@orderdesk.test", Role: enum.UserRoleCustomer, IsActive: true}
	boss := entity.User{ID: uuid.New(), Email: "root@orderdesk.test", Role: enum.UserRoleSuperAdmin, IsActive: true}
	svc := NewUserService(newFakeUserRepo(target, boss), testLog)
	ctx := context.Background()

	updated, err := svc.UpdateRole(ctx, admin, target.ID, "account_manager")
	require.NoError(t, err)
	assert.Equal(t, enum.UserRoleAccountManager, updated.Role)

	_, err = svc.UpdateRole(ctx, admin, target.ID, "super_admin")
	assert.Equal(t, http.StatusForbidden, appCode(t, err))

	_, err = svc.UpdateRole(ctx, admin, boss.ID, "customer")
	assert.Equal(t, http.StatusForbidden, appCode(t, err))

	superActor := entity.Actor{UserID: uuid.New(), Role: enum.UserRoleSuperAdmin}
	_, err = svc.UpdateRole(ctx, superActor, target.ID, "super_admin")
	require.NoError(t, err)

	_, err = svc.UpdateRole(ctx, admin, admin.UserID, "customer")
	assert.Equal(t, http.StatusBadRequest, appCode(t, err))

	_, err = svc.UpdateRole(ctx, admin, target.ID, "owner")
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))

	_, err = svc.UpdateRole(ctx, staff, target.ID, "customer")
	assert.Equal(t, http.StatusForbidden, appCode(t, err))
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	jwtManager := utils.NewJWTManager("test-secret", "orderdesk-api", time.Hour)
	svc := NewAuthService(users, jwtManager, testLog)
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterInput{
		Email:       " Jane@Shop.test ",
		Password:    "correct-horse",
		CompanyName: "Jane's Shop",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@shop.test", user.Email)
	assert.Equal(t, "jane", user.Username)
	assert.Equal(t, enum.UserRoleCustomer, user.Role)
	assert.NotEqual(t, "correct-horse", user.Password)

	_, err = svc.Register(ctx, &RegisterInput{Email: "jane@shop.test", Password: "correct-horse", CompanyName: "Again"})
	assert.Equal(t, http.StatusConflict, appCode(t, err))

	_, err = svc.Register(ctx, &RegisterInput{Email: "bob@shop.test", Password: "short", CompanyName: "Bob"})
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))

	out, err := svc.Login(ctx, &LoginInput{Email: "jane@shop.test", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), out.ExpiresIn)
	require.NotNil(t, out.User.LastLogin)

	claims, err := jwtManager.ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "customer", claims.Role)

	_, err = svc.Login(ctx, &LoginInput{Email: "jane@shop.test", Password: "wrong-horse"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)
	users := newFakeUserRepo(entity.User{ID: uuid.New(), Email: "old@shop.test", Password: hash, Role: enum.UserRoleCustomer})
	svc := NewAuthService(users, utils.NewJWTManager("s", "orderdesk-api", time.Hour), testLog)

	_, err = svc.Login(context.Background(), &LoginInput{Email: "old@shop.test", Password: "correct-horse"})
	assert.ErrorIs(t, err, apperror.ErrInactiveAccount)
}

func TestUpdateProfile(t *testing.T) {
	me := entity.User{ID: buyer.UserID, Username: "buyer", Email: "buyer@shop.test", CompanyName: "Shop", IsActive: true}
	taken := entity.User{ID: uuid.New(), Username: "taken", Email: "taken@shop.test", IsActive: true}
	users := newFakeUserRepo(me, taken)
	svc := NewUserService(users, testLog)
	ctx := context.Background()

	updated, err := svc.UpdateProfile(ctx, buyer, &UpdateProfileInput{
		Email:       strPtr(" New@Shop.test "),
		CompanyName: strPtr("Shop Ltd"),
	})
	require.NoError(t, err)
	assert.Equal(t, "new@shop.test", updated.Email)
	assert.Equal(t, "Shop Ltd", updated.CompanyName)

	_, err = svc.UpdateProfile(ctx, buyer, &UpdateProfileInput{Email: strPtr("TAKEN@shop.test")})
	assert.Equal(t, http.StatusConflict, appCode(t, err))

	_, err = svc.UpdateProfile(ctx, buyer, &UpdateProfileInput{Email: strPtr("not-an-email")})
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))

	_, err = svc.UpdateProfile(ctx, buyer, &UpdateProfileInput{CompanyName: strPtr("  ")})
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))

	unchanged, err := svc.UpdateProfile(ctx, buyer, &UpdateProfileInput{})
	require.NoError(t, err)
	assert.Equal(t, "new@shop.test", unchanged.Email)
}

func TestChangePassword(t *testing.T) {
	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)
	users := newFakeUserRepo(entity.User{ID: buyer.UserID, Email: buyer.Email, Password: hash, IsActive: true})
	svc := NewUserService(users, testLog)
	ctx := context.Background()

	err = svc.ChangePassword(ctx, buyer, &ChangePasswordInput{OldPassword: "wrong-horse", NewPassword: "battery-staple"})
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))

	err = svc.ChangePassword(ctx, buyer, &ChangePasswordInput{OldPassword: "correct-horse", NewPassword: "short"})
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))

	require.NoError(t, svc.ChangePassword(ctx, buyer, &ChangePasswordInput{
		OldPassword: "correct-horse",
		NewPassword: "battery-staple",
	}))

	auth := NewAuthService(users, utils.NewJWTManager("s", "orderdesk-api", time.Hour), testLog)
	_, err = auth.Login(ctx, &LoginInput{Email: buyer.Email, Password: "correct-horse"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	_, err = auth.Login(ctx, &LoginInput{Email: buyer.Email, Password: "battery-staple"})
	assert.NoError(t, err)
}

func TestUpdateUserStatus(t *testing.T) {
	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)
	target := entity.User{ID: uuid.New(), Email: "rep@orderdesk.test", Password: hash, Role: enum.UserRoleAccountManager, IsActive: true}
	boss := entity.User{ID: uuid.New(), Email: "root@orderdesk.test", Role: enum.UserRoleSuperAdmin, IsActive: true}
	users := newFakeUserRepo(target, boss)
	svc := NewUserService(users, testLog)
	ctx := context.Background()

	updated, err := svc.UpdateStatus(ctx, admin, target.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	auth := NewAuthService(users, utils.NewJWTManager("s", "orderdesk-api", time.Hour), testLog)
	_, err = auth.Login(ctx, &LoginInput{Email: target.Email, Password: "correct-horse"})
	assert.ErrorIs(t, err, apperror.ErrInactiveAccount)

	again, err := svc.UpdateStatus(ctx, admin, target.ID, false)
	require.NoError(t, err)
	assert.False(t, again.IsActive)

	_, err = svc.UpdateStatus(ctx, admin, boss.ID, false)
	assert.Equal(t, http.StatusForbidden, appCode(t, err))

	_, err = svc.UpdateStatus(ctx, admin, admin.UserID, false)
	assert.Equal(t, http.StatusBadRequest, appCode(t, err))

	_, err = svc.UpdateStatus(ctx, staff, target.ID, true)
	assert.Equal(t, http.StatusForbidden, appCode(t, err))

	_, err = svc.UpdateStatus(ctx, admin, uuid.New(), true)
	assert.Equal(t, http.StatusNotFound, appCode(t, err))
}
