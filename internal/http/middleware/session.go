package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"

	"github.com/keepsake-app/keepsake/internal/db"
)

const (
	sessionCookie = "session"
	sessionTTL    = 7 * 24 * time.Hour
)

// RevocationList remembers tokens invalidated by logout until they would
// have expired anyway.
type RevocationList interface {
	Revoke(ctx context.Context, token string, ttl time.Duration)
	IsRevoked(ctx context.Context, token string) bool
}

// SessionManager issues and validates the signed session cookie. It holds no
// per-user state itself; identity lives in the token's “sub” claim.
type SessionManager struct {
	secret  string
	store   db.Store
	revoked RevocationList
}

// NewSessionManager builds a manager; revoked may be nil, in which case
// logout only clears the client cookie.
func NewSessionManager(secret string, store db.Store, revoked RevocationList) *SessionManager {
	return &SessionManager{secret: secret, store: store, revoked: revoked}
}

// Issue signs a token embedding userID in the “sub” claim and sets it as the
// session cookie.
func (m *SessionManager) Issue(c *gin.Context, userID int) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(sessionTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(m.secret))
	if err != nil {
		return err
	}
	c.SetCookie(sessionCookie, signed, int(sessionTTL.Seconds()), "/", "", false, true)
	return nil
}

// verifies the token and returns the user ID and expiry.
func (m *SessionManager) parseToken(tokenString string) (int, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(m.secret), nil
	})
	if err != nil || !token.Valid {
		return 0, time.Time{}, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, time.Time{}, errors.New("invalid claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, time.Time{}, errors.New("invalid sub claim")
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return 0, time.Time{}, errors.New("invalid exp claim")
	}
	return int(sub), time.Unix(int64(exp), 0), nil
}

// LoadUser reads the session cookie, verifies it, loads the user, and sets
// “currentUser” in context. Any failure leaves the request anonymous.
func (m *SessionManager) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(sessionCookie)
		if err != nil || tokenString == "" {
			c.Next()
			return
		}

		userID, _, err := m.parseToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		if m.revoked != nil && m.revoked.IsRevoked(c.Request.Context(), tokenString) {
			c.Next()
			return
		}

		user, err := m.store.GetUserByID(userID)
		if err != nil {
			c.Next()
			return
		}
		c.Set("currentUser", user)
		c.Next()
	}
}

// RequireUser redirects anonymous requests to the login page.
func (m *SessionManager) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetCurrentUser(c); !ok {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Clear revokes the current token (when a revocation list is configured) and
// expires the cookie. Safe to call on an already-anonymous request.
func (m *SessionManager) Clear(c *gin.Context) {
	tokenString, err := c.Cookie(sessionCookie)
	if err == nil && tokenString != "" && m.revoked != nil {
		if _, exp, perr := m.parseToken(tokenString); perr == nil {
			m.revoked.Revoke(c.Request.Context(), tokenString, time.Until(exp))
		}
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}
