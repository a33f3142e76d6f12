package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/opencatalog/catalog/pkg/errors"
	"github.com/opencatalog/catalog/pkg/logger"
)

type contextKey string

const identityKey contextKey = "identity"

const (
	sessionCookieName = "catalog_session"
	stateCookieName   = "catalog_auth_state"
	stateCookieMaxAge = 300
)

// GateConfig configures the identity-provider access gate.
type GateConfig struct {
	Enabled       bool
	Authority     string
	ClientID      string
	ClientSecret  string
	RedirectURI   string
	SessionSecret string
	SessionExpiry time.Duration
	SecureCookies bool
}

// Gate protects the site behind an identity provider. When disabled it
// passes every request through unchanged.
type Gate struct {
	cfg      GateConfig
	sessions *SessionManager
	client   *http.Client
	logger   *slog.Logger
}

// NewGate creates an access gate from the given configuration.
func NewGate(cfg GateConfig, logger *slog.Logger) *Gate {
	return &Gate{
		cfg:      cfg,
		sessions: NewSessionManager(cfg.SessionSecret, cfg.SessionExpiry),
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

// Enabled reports whether the gate is active.
func (g *Gate) Enabled() bool {
	return g.cfg.Enabled
}

// IdentityFromContext returns the signed-in identity, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok
}

// Middleware requires a valid session for every request. Visitors
// without one are redirected to the identity provider's authorization
// endpoint.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.cfg.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(sessionCookieName)
		if err == nil {
			if identity, err := g.sessions.Validate(cookie.Value); err == nil {
				ctx := context.WithValue(r.Context(), identityKey, identity)
				ctx = logger.WithUserName(ctx, identity.DisplayName)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			g.clearCookie(w, sessionCookieName)
		}

		g.redirectToAuthority(w, r)
	})
}

func (g *Gate) redirectToAuthority(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		g.logger.ErrorContext(r.Context(), "failed to generate auth state",
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   stateCookieMaxAge,
		HttpOnly: true,
		Secure:   g.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	query := url.Values{}
	query.Set("response_type", "code")
	query.Set("client_id", g.cfg.ClientID)
	query.Set("redirect_uri", g.cfg.RedirectURI)
	query.Set("scope", "openid profile email")
	query.Set("state", state)

	authorizeURL := strings.TrimRight(g.cfg.Authority, "/") + "/authorize?" + query.Encode()
	http.Redirect(w, r, authorizeURL, http.StatusFound)
}

// CallbackHandler completes the authorization-code flow: it checks the
// state, exchanges the code for tokens, and issues the session cookie.
func (g *Gate) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || state == "" || stateCookie.Value != state {
		g.logger.WarnContext(r.Context(), "auth callback with invalid state")
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	g.clearCookie(w, stateCookieName)

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	identity, err := g.exchangeCode(r.Context(), code)
	if err != nil {
		g.logger.ErrorContext(r.Context(), "token exchange failed",
			slog.String("error", err.Error()),
		)
		http.Error(w, "sign-in failed", apperrors.HTTPStatus(err))
		return
	}

	token, err := g.sessions.Issue(*identity)
	if err != nil {
		g.logger.ErrorContext(r.Context(), "failed to issue session",
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(g.cfg.SessionExpiry.Seconds()),
		HttpOnly: true,
		Secure:   g.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	g.logger.InfoContext(r.Context(), "visitor signed in",
		slog.String("subject", identity.Subject),
	)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LogoutHandler clears the session cookie and returns to the home page.
func (g *Gate) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	g.clearCookie(w, sessionCookieName)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// exchangeCode swaps the authorization code for tokens at the
// authority's token endpoint. The exchange is a single request; a
// failure sends the visitor back through the gate rather than retrying.
func (g *Gate) exchangeCode(ctx context.Context, code string) (*Identity, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", g.cfg.RedirectURI)
	form.Set("client_id", g.cfg.ClientID)
	form.Set("client_secret", g.cfg.ClientSecret)

	tokenURL := strings.TrimRight(g.cfg.Authority, "/") + "/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, apperrors.Unauthorized("token exchange failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Unauthorized(fmt.Sprintf("token endpoint returned %d", resp.StatusCode))
	}

	var tokenResp struct {
		IDToken     string `json:"id_token"`
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tokenResp.IDToken == "" {
		return nil, apperrors.Unauthorized("token response missing id_token")
	}

	return identityFromIDToken(tokenResp.IDToken)
}

// identityFromIDToken extracts the identity claims from the ID token.
// The token arrives directly from the authority over TLS, so its
// signature is not re-verified locally.
func identityFromIDToken(idToken string) (*Identity, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(idToken, claims); err != nil {
		return nil, fmt.Errorf("parse id_token: %w", err)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, apperrors.Unauthorized("id_token missing subject")
	}

	identity := &Identity{Subject: sub}
	if name, ok := claims["name"].(string); ok {
		identity.DisplayName = name
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}

	return identity, nil
}

func (g *Gate) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
