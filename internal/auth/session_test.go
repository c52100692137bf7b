package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hacktivity/internal/config"
	"hacktivity/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret:     "test-signing-secret-0123456789ab",
		CookieName: "hkt_session",
		TTLHours:   72,
	}
}

// newTestContext builds a gin context carrying the given cookies, returning
// the recorder so the response's Set-Cookie headers can be inspected.
func newTestContext(cookies []*http.Cookie) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	c.Request = req
	return c, w
}

func issueSession(t *testing.T, sm *SessionManager, p *Principal) (string, []*http.Cookie) {
	t.Helper()
	c, w := newTestContext(nil)
	token, err := sm.Issue(c, p)
	require.NoError(t, err)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "Issue must set a cookie")
	return token, cookies
}

func sessionUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Name:         "Session User",
		Username:     "sessionuser",
		Email:        "session@example.com",
		PasswordHash: "irrelevant-here",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestSession_IssueThenResolve(t *testing.T) {
	db := setupTestDB(t)
	sm := NewSessionManager(db, testSessionConfig())
	user := sessionUser(t, db)

	token, cookies := issueSession(t, sm, NewPrincipal(user))
	assert.NotEmpty(t, token)

	c, _ := newTestContext(cookies)
	p, err := sm.Resolve(c)
	require.NoError(t, err)
	assert.Equal(t, user.ID, p.ID)
}

func TestSession_CookieIsSignedAndHTTPOnly(t *testing.T) {
	db := setupTestDB(t)
	sm := NewSessionManager(db, testSessionConfig())
	user := sessionUser(t, db)

	token, cookies := issueSession(t, sm, NewPrincipal(user))

	ck := cookies[0]
	assert.True(t, ck.HttpOnly, "session cookie must be http-only")
	// the cookie value is the encoded form, never the raw token
	assert.NotEqual(t, token, ck.Value)

	// a tampered cookie does not resolve
	tampered := *ck
	tampered.Value = tampered.Value + "x"
	c, _ := newTestContext([]*http.Cookie{&tampered})
	_, err := sm.Resolve(c)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSession_ResolveWithoutCookie(t *testing.T) {
	db := setupTestDB(t)
	sm := NewSessionManager(db, testSessionConfig())

	c, _ := newTestContext(nil)
	_, err := sm.Resolve(c)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSession_ResolveAfterRevoke(t *testing.T) {
	db := setupTestDB(t)
	sm := NewSessionManager(db, testSessionConfig())
	user := sessionUser(t, db)

	_, cookies := issueSession(t, sm, NewPrincipal(user))

	c, _ := newTestContext(cookies)
	require.NoError(t, sm.Revoke(c))

	c2, _ := newTestContext(cookies)
	_, err := sm.Resolve(c2)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// revoking again is not an error
	c3, _ := newTestContext(cookies)
	assert.NoError(t, sm.Revoke(c3))
}

func TestSession_Expired(t *testing.T) {
	db := setupTestDB(t)
	sm := NewSessionManager(db, testSessionConfig())
	user := sessionUser(t, db)

	token, cookies := issueSession(t, sm, NewPrincipal(user))

	// push the session into the past
	require.NoError(t, db.Model(&models.Session{}).
		Where("id = ?", token).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	c, _ := newTestContext(cookies)
	_, err := sm.Resolve(c)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// the expired row is gone
	var count int64
	db.Model(&models.Session{}).Where("id = ?", token).Count(&count)
	assert.Zero(t, count)
}

func TestSession_StaleWhenUserDeleted(t *testing.T) {
	db := setupTestDB(t)
	sm := NewSessionManager(db, testSessionConfig())
	user := sessionUser(t, db)

	_, cookies := issueSession(t, sm, NewPrincipal(user))

	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)

	c, w := newTestContext(cookies)
	_, err := sm.Resolve(c)
	assert.ErrorIs(t, err, ErrStaleSession)

	// the cookie was cleared on the response
	cleared := w.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.Less(t, cleared[0].MaxAge, 0)

	// and the user's session rows are gone
	var count int64
	db.Model(&models.Session{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Zero(t, count)
}

func TestSession_ReflectsCurrentAccountState(t *testing.T) {
	db := setupTestDB(t)
	sm := NewSessionManager(db, testSessionConfig())
	user := sessionUser(t, db)

	_, cookies := issueSession(t, sm, NewPrincipal(user))

	// name change after issue must be visible without re-login
	require.NoError(t, db.Model(user).Update("name", "Renamed").Error)

	c, _ := newTestContext(cookies)
	p, err := sm.Resolve(c)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Name)
}

func TestSession_FixedTTLByDefault(t *testing.T) {
	db := setupTestDB(t)
	sm := NewSessionManager(db, testSessionConfig())
	user := sessionUser(t, db)

	token, cookies := issueSession(t, sm, NewPrincipal(user))

	var before models.Session
	require.NoError(t, db.First(&before, "id = ?", token).Error)

	c, _ := newTestContext(cookies)
	_, err := sm.Resolve(c)
	require.NoError(t, err)

	var after models.Session
	require.NoError(t, db.First(&after, "id = ?", token).Error)
	assert.WithinDuration(t, before.ExpiresAt, after.ExpiresAt, time.Second,
		"resolve must not extend expiry when rolling is off")
}

func TestSession_RollingExtendsExpiry(t *testing.T) {
	db := setupTestDB(t)
	cfg := testSessionConfig()
	cfg.Rolling = true
	sm := NewSessionManager(db, cfg)
	user := sessionUser(t, db)

	token, cookies := issueSession(t, sm, NewPrincipal(user))

	// shrink the expiry so the extension is observable
	require.NoError(t, db.Model(&models.Session{}).
		Where("id = ?", token).
		Update("expires_at", time.Now().Add(time.Hour)).Error)

	c, _ := newTestContext(cookies)
	_, err := sm.Resolve(c)
	require.NoError(t, err)

	var after models.Session
	require.NoError(t, db.First(&after, "id = ?", token).Error)
	assert.Greater(t, after.ExpiresAt, time.Now().Add(time.Hour),
		"resolve must extend expiry when rolling is on")
}

func TestSession_RevokeUser(t *testing.T) {
	db := setupTestDB(t)
	sm := NewSessionManager(db, testSessionConfig())
	user := sessionUser(t, db)

	_, first := issueSession(t, sm, NewPrincipal(user))
	_, second := issueSession(t, sm, NewPrincipal(user))

	require.NoError(t, sm.RevokeUser(user.ID))

	for _, cookies := range [][]*http.Cookie{first, second} {
		c, _ := newTestContext(cookies)
		_, err := sm.Resolve(c)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	}
}

func TestSession_Stateless(t *testing.T) {
	db := setupTestDB(t)
	cfg := testSessionConfig()
	cfg.Stateless = true
	sm := NewSessionManager(db, cfg)
	user := sessionUser(t, db)

	_, cookies := issueSession(t, sm, NewPrincipal(user))

	// no session row is written in stateless mode
	var count int64
	db.Model(&models.Session{}).Count(&count)
	assert.Zero(t, count)

	c, _ := newTestContext(cookies)
	p, err := sm.Resolve(c)
	require.NoError(t, err)
	assert.Equal(t, user.ID, p.ID)

	// a deleted account is still detected
	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)
	c2, _ := newTestContext(cookies)
	_, err = sm.Resolve(c2)
	assert.ErrorIs(t, err, ErrStaleSession)
}

func TestSession_StatelessExpired(t *testing.T) {
	db := setupTestDB(t)
	cfg := testSessionConfig()
	cfg.Stateless = true
	sm := NewSessionManager(db, cfg)
	user := sessionUser(t, db)

	// negative TTL produces an already-expired payload
	sm.TTL = -time.Minute
	_, cookies := issueSession(t, sm, NewPrincipal(user))

	c, _ := newTestContext(cookies)
	_, err := sm.Resolve(c)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
