package service

import (
	"eduplay_backend/internal/config"
	"eduplay_backend/internal/model"
	"eduplay_backend/internal/repository"
	"eduplay_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	env := newTestEnv(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-test-secret-test-secret!"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(env.db), cfg)
}

func TestRegisterHashesPasswordAndDefaultsLanguage(t *testing.T) {
	auth := newAuthService(t)

	user := &model.User{Name: "Ada", Email: "ada@example.com", Password: "secret123", Role: model.Student}
	require.NoError(t, auth.Register(user))

	assert.NotEqual(t, "secret123", user.Password)
	assert.Equal(t, "en", user.Language)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	auth := newAuthService(t)

	first := &model.User{Name: "Ada", Email: "ada@example.com", Password: "secret123"}
	require.NoError(t, auth.Register(first))

	dup := &model.User{Name: "Imposter", Email: "ada@example.com", Password: "other"}
	assert.ErrorIs(t, auth.Register(dup), util.ErrEmailRegistered)
}

func TestLoginIssuesValidToken(t *testing.T) {
	auth := newAuthService(t)

	user := &model.User{Name: "Ada", Email: "ada@example.com", Password: "secret123", Role: model.Teacher}
	require.NoError(t, auth.Register(user))

	loggedIn, token, err := auth.Login("ada@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	require.NotEmpty(t, token)

	claims, err := util.ParseJWT(token, auth.Cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Teacher, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth := newAuthService(t)

	user := &model.User{Name: "Ada", Email: "ada@example.com", Password: "secret123"}
	require.NoError(t, auth.Register(user))

	_, _, err := auth.Login("ada@example.com", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, _, err = auth.Login("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestUpdateProfileOnlyTouchesProvidedFields(t *testing.T) {
	auth := newAuthService(t)

	user := &model.User{Name: "Ada", Email: "ada@example.com", Password: "secret123", Language: "fr"}
	require.NoError(t, auth.Register(user))

	updated, err := auth.UpdateProfile(user.ID, ProfileUpdate{Avatar: "owl.png"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.Name)
	assert.Equal(t, "fr", updated.Language)
	assert.Equal(t, "owl.png", updated.Avatar)
}
