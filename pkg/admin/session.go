// Session authentication for the admin API.

package admin

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/offerdesk/offerd/pkg/config"
	"github.com/offerdesk/offerd/pkg/httputil"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "offerd_session"

// sessionSecretLength is the length of a generated signing secret in bytes.
const sessionSecretLength = 32

// Session identifies an authenticated user for the lifetime of a request.
type Session struct {
	Username string
	Role     string
}

// IsAdministrator reports whether the session carries the administrator
// role.
func (s Session) IsAdministrator() bool {
	return s.Role == config.RoleAdministrator
}

type sessionKey struct{}

// SessionFromContext returns the session attached by the auth middleware.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}

// sessionAuth issues and verifies session cookies and gates requests on
// the administrator role.
type sessionAuth struct {
	secret []byte
	ttl    time.Duration
	users  []config.User
	log    func(msg string, args ...any)
}

// newSessionAuth creates a session authenticator. When no secret is
// configured a random one is generated; sessions then do not survive a
// restart.
func newSessionAuth(cfg config.Config, logFn func(msg string, args ...any)) (*sessionAuth, error) {
	secret := []byte(cfg.Session.Secret)
	if len(secret) == 0 {
		b := make([]byte, sessionSecretLength)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		secret = []byte(hex.EncodeToString(b))
		logFn("no session secret configured, generated one; sessions will not survive restarts")
	}

	return &sessionAuth{
		secret: secret,
		ttl:    cfg.SessionTTL(),
		users:  cfg.Users,
		log:    logFn,
	}, nil
}

// issue creates a signed session token for the given user.
func (a *sessionAuth) issue(username, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  username,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(a.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// verify parses and validates a session token.
func (a *sessionAuth) verify(tokenString string) (Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return Session{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Session{}, fmt.Errorf("invalid session token")
	}
	username, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if username == "" {
		return Session{}, fmt.Errorf("session token missing subject")
	}
	return Session{Username: username, Role: role}, nil
}

// authenticate checks a username/password pair against the configured
// users using a constant-time comparison.
func (a *sessionAuth) authenticate(username, password string) (config.User, bool) {
	for _, u := range a.users {
		if u.Username != username {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) == 1 {
			return u, true
		}
		return config.User{}, false
	}
	return config.User{}, false
}

// exemptPaths are reachable without a session.
var exemptPaths = map[string]bool{
	"/health": true,
	"/login":  true,
}

// middleware enforces authentication plus the administrator role on every
// non-exempt route. Unauthenticated requests get a redirect to /login;
// authenticated requests without the administrator role get 403.
func (a *sessionAuth) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if exemptPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || strings.TrimSpace(cookie.Value) == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		sess, err := a.verify(cookie.Value)
		if err != nil {
			a.log("rejected session token", "error", err)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		if !sess.IsAdministrator() {
			writeForbidden(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

// loginRequest is the body of POST /login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleLogin handles POST /login.
func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, MsgValidationFailure, CodeValidationFailure)
		return
	}

	user, ok := a.sessions.authenticate(req.Username, req.Password)
	if !ok {
		a.log.Warn("failed login attempt", "username", req.Username)
		writeError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	token, err := a.sessions.issue(user.Username, user.Role)
	if err != nil {
		a.log.Error("failed to issue session token", "error", err)
		writeError(w, "", 0)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.sessions.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	a.log.Info("user logged in", "username", user.Username, "role", user.Role)
	httputil.WriteOK(w, map[string]string{
		"username": user.Username,
		"role":     user.Role,
	})
}

// handleLogout handles POST /logout.
func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	httputil.WriteEmpty(w, http.StatusOK)
}
