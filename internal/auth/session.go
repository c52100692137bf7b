package auth

import (
	"errors"
	"fmt"
	"time"

	"hacktivity/internal/config"
	"hacktivity/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"gorm.io/gorm"
)

// SessionManager issues, resolves and revokes session identity. The cookie
// value is always signed; what it carries depends on the mode:
//
//   - store-backed (default): an opaque UUID token bound to a sessions row
//   - stateless: a self-contained signed payload (JWT), no sessions row
//
// State machine: Anonymous -> (Issue, after Verify success) -> Authenticated
// -> (Revoke | expiry) -> Anonymous. Resolve always reloads the account row,
// so profile edits are visible without re-login and deleted accounts are
// detected as stale.
type SessionManager struct {
	DB         *gorm.DB
	CookieName string
	TTL        time.Duration
	Rolling    bool
	Secure     bool
	Stateless  bool

	codec  *securecookie.SecureCookie
	secret []byte
}

func NewSessionManager(db *gorm.DB, cfg config.SessionConfig) *SessionManager {
	ttl := time.Duration(cfg.TTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	name := cfg.CookieName
	if name == "" {
		name = "hkt_session"
	}
	return &SessionManager{
		DB:         db,
		CookieName: name,
		TTL:        ttl,
		Rolling:    cfg.Rolling,
		Secure:     cfg.Secure,
		Stateless:  cfg.Stateless,
		codec:      securecookie.New([]byte(cfg.Secret), nil),
		secret:     []byte(cfg.Secret),
	}
}

type sessionClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

// Issue creates a fresh session for the principal and sets the signed,
// http-only cookie on the response. It returns the raw token.
func (m *SessionManager) Issue(c *gin.Context, p *Principal) (string, error) {
	now := time.Now()
	var token string

	if m.Stateless {
		claims := &sessionClaims{
			UserID: p.ID,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(m.TTL)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
		if err != nil {
			return "", fmt.Errorf("sign session payload: %w", err)
		}
		token = signed
	} else {
		token = uuid.NewString()
		session := models.Session{
			ID:        token,
			UserID:    p.ID,
			ExpiresAt: now.Add(m.TTL),
		}
		if err := m.DB.Create(&session).Error; err != nil {
			return "", fmt.Errorf("create session: %w", err)
		}
	}

	if err := m.setCookie(c, token, int(m.TTL.Seconds())); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve reconstructs the principal from the request's session cookie. A
// missing, tampered, unknown or expired session fails ErrUnauthenticated. A
// session whose account was deleted fails ErrStaleSession and the cookie is
// cleared. With Rolling enabled, a successful resolve extends the expiry.
func (m *SessionManager) Resolve(c *gin.Context) (*Principal, error) {
	token, err := m.readCookie(c)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	userID, err := m.resolveToken(token)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = m.DB.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// account deleted out from under the session
		if !m.Stateless {
			m.DB.Where("user_id = ?", userID).Delete(&models.Session{})
		}
		m.ClearCookie(c)
		return nil, ErrStaleSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session account: %w", err)
	}

	if m.Rolling && !m.Stateless {
		m.DB.Model(&models.Session{}).Where("id = ?", token).
			Update("expires_at", time.Now().Add(m.TTL))
		_ = m.setCookie(c, token, int(m.TTL.Seconds()))
	}

	return NewPrincipal(&user), nil
}

// resolveToken maps a raw token to the bound account ID.
func (m *SessionManager) resolveToken(token string) (uint, error) {
	if m.Stateless {
		claims := &sessionClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			return m.secret, nil
		})
		if err != nil || !parsed.Valid {
			return 0, ErrUnauthenticated
		}
		return claims.UserID, nil
	}

	var session models.Session
	err := m.DB.Where("id = ?", token).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrUnauthenticated
	}
	if err != nil {
		return 0, fmt.Errorf("look up session: %w", err)
	}
	if time.Now().After(session.ExpiresAt) {
		m.DB.Delete(&models.Session{}, "id = ?", token)
		return 0, ErrUnauthenticated
	}
	return session.UserID, nil
}

// Revoke invalidates the request's session and clears the cookie. Revoking a
// missing or already-revoked session is not an error.
func (m *SessionManager) Revoke(c *gin.Context) error {
	token, err := m.readCookie(c)
	if err == nil && !m.Stateless {
		if err := m.DB.Delete(&models.Session{}, "id = ?", token).Error; err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}
	m.ClearCookie(c)
	return nil
}

// RevokeUser deletes every stored session of a user. Used on account
// deletion; stateless cookies cannot be recalled and are caught as stale on
// their next resolve instead.
func (m *SessionManager) RevokeUser(userID uint) error {
	if m.Stateless {
		return nil
	}
	if err := m.DB.Where("user_id = ?", userID).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}

func (m *SessionManager) setCookie(c *gin.Context, token string, maxAge int) error {
	encoded, err := m.codec.Encode(m.CookieName, token)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	c.SetCookie(m.CookieName, encoded, maxAge, "/", "", m.Secure, true)
	return nil
}

func (m *SessionManager) readCookie(c *gin.Context) (string, error) {
	raw, err := c.Cookie(m.CookieName)
	if err != nil {
		return "", err
	}
	var token string
	if err := m.codec.Decode(m.CookieName, raw, &token); err != nil {
		return "", err
	}
	return token, nil
}

// ClearCookie expires the session cookie on the response.
func (m *SessionManager) ClearCookie(c *gin.Context) {
	c.SetCookie(m.CookieName, "", -1, "/", "", m.Secure, true)
}
