package auth

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/itsatony/sensorhub/internal/errors"
	"github.com/itsatony/sensorhub/internal/logging"
	"github.com/itsatony/sensorhub/internal/models"
	"github.com/itsatony/sensorhub/internal/repository/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestMain(m *testing.M) {
	if _, err := logging.Setup("error"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fixture struct {
	gate   *Gate
	users  *repotest.UserStore
	leases *repotest.TokenStore
	now    time.Time
}

func newFixture(t *testing.T, withLeases bool) *fixture {
	t.Helper()
	f := &fixture{
		users: repotest.NewUserStore(),
		now:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	var leases *repotest.TokenStore
	if withLeases {
		leases = repotest.NewTokenStore()
		f.leases = leases
	}
	opts := Options{
		SecretKey:         testSecret,
		AccessTokenExpire: time.Hour,
		ResetTokenExpire:  48 * time.Hour,
		Now:               func() time.Time { return f.now },
	}
	if leases != nil {
		f.gate = NewGate(f.users, leases, opts)
	} else {
		f.gate = NewGate(f.users, nil, opts)
	}
	return f
}

func (f *fixture) addUser(t *testing.T, active, superuser bool) *models.User {
	t.Helper()
	u := &models.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", IsActive: active, IsSuperuser: superuser}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	apiErr, ok := errors.As(err)
	require.True(t, ok, "expected APIError, got %v", err)
	return apiErr.Code
}

func TestAuthenticateRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	user := f.addUser(t, true, false)

	tok, err := f.gate.IssueAccessToken(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)

	p, err := f.gate.Authenticate(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, p.User.ID)
	assert.NotEmpty(t, p.TokenID)
	assert.True(t, f.gate.Authorize(p, LevelUser))
	assert.False(t, f.gate.Authorize(p, LevelSuperuser))
}

func TestAuthenticateFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	active := f.addUser(t, true, false)
	inactive := f.addUser(t, false, false)

	activeTok, err := f.gate.IssueAccessToken(ctx, active)
	require.NoError(t, err)
	inactiveTok, err := f.gate.IssueAccessToken(ctx, inactive)
	require.NoError(t, err)
	ghostTok, err := f.gate.IssueAccessToken(ctx, &models.User{ID: uuid.New()})
	require.NoError(t, err)
	resetTok, err := f.gate.IssueResetToken(active.Email)
	require.NoError(t, err)

	other := NewGate(f.users, nil, Options{SecretKey: "ffffffffffffffffffffffffffffffff", AccessTokenExpire: time.Hour})
	forged, err := other.IssueAccessToken(ctx, active)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{name: "missing", token: "", status: http.StatusUnauthorized},
		{name: "garbage", token: "not.a.jwt", status: http.StatusUnauthorized},
		{name: "wrong secret", token: forged.AccessToken, status: http.StatusUnauthorized},
		{name: "reset token as access token", token: resetTok, status: http.StatusUnauthorized},
		{name: "unknown user", token: ghostTok.AccessToken, status: http.StatusUnauthorized},
		{name: "inactive user", token: inactiveTok.AccessToken, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.gate.Authenticate(ctx, tt.token)
			require.Error(t, err)
			assert.Equal(t, tt.status, statusOf(t, err))
		})
	}

	// expiry
	f.now = f.now.Add(2 * time.Hour)
	_, err = f.gate.Authenticate(ctx, activeTok.AccessToken)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	user := f.addUser(t, true, true)

	first, err := f.gate.IssueAccessToken(ctx, user)
	require.NoError(t, err)
	second, err := f.gate.IssueAccessToken(ctx, user)
	require.NoError(t, err)

	p, err := f.gate.Authenticate(ctx, first.AccessToken)
	require.NoError(t, err)
	require.NoError(t, f.gate.Revoke(ctx, p))

	_, err = f.gate.Authenticate(ctx, first.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	_, err = f.gate.Authenticate(ctx, second.AccessToken)
	assert.NoError(t, err)

	require.NoError(t, f.gate.RevokeAll(ctx, user.ID.String()))
	_, err = f.gate.Authenticate(ctx, second.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestStatelessGateIgnoresRevoke(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	user := f.addUser(t, true, false)

	tok, err := f.gate.IssueAccessToken(ctx, user)
	require.NoError(t, err)
	p, err := f.gate.Authenticate(ctx, tok.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.gate.Revoke(ctx, p))
	_, err = f.gate.Authenticate(ctx, tok.AccessToken)
	assert.NoError(t, err)
}

func TestRequire(t *testing.T) {
	f := newFixture(t, false)
	user := &Principal{User: models.User{ID: uuid.New(), IsActive: true}}
	admin := &Principal{User: models.User{ID: uuid.New(), IsActive: true, IsSuperuser: true}}

	assert.Equal(t, http.StatusUnauthorized, statusOf(t, f.gate.Require(nil, LevelUser)))
	assert.NoError(t, f.gate.Require(user, LevelUser))
	assert.Equal(t, http.StatusForbidden, statusOf(t, f.gate.Require(user, LevelSuperuser)))
	assert.NoError(t, f.gate.Require(admin, LevelSuperuser))
}

func TestResetToken(t *testing.T) {
	f := newFixture(t, false)

	tok, err := f.gate.IssueResetToken("someone@example.com")
	require.NoError(t, err)

	email, err := f.gate.VerifyResetToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "someone@example.com", email)

	_, err = f.gate.VerifyResetToken("bogus")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	f.now = f.now.Add(49 * time.Hour)
	_, err = f.gate.VerifyResetToken(tok)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestBearerToken(t *testing.T) {
	tok, err := BearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", tok)

	tok, err = BearerToken("bearer   xyz ")
	require.NoError(t, err)
	assert.Equal(t, "xyz", tok)

	for _, h := range []string{"", "Basic abc", "Bearer", "Bearer "} {
		_, err := BearerToken(h)
		assert.Error(t, err, h)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("changethis")
	require.NoError(t, err)
	assert.NotEqual(t, "changethis", hash)
	assert.True(t, VerifyPassword("changethis", hash))
	assert.False(t, VerifyPassword("changethat", hash))
}
