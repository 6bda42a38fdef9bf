package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"cerdas/internal/service"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// OAuthHandler runs the Google sign-in flow
type OAuthHandler struct {
	authService *service.AuthService
	config      *oauth2.Config
	log         *zap.SugaredLogger
}

// NewOAuthHandler creates a Google OAuth handler. Returns nil when the
// client credentials are not configured.
func NewOAuthHandler(authService *service.AuthService, clientID, clientSecret, redirectBase string, log *zap.SugaredLogger) *OAuthHandler {
	if clientID == "" || clientSecret == "" {
		log.Info("google sign-in disabled: client credentials not configured")
		return nil
	}

	return &OAuthHandler{
		authService: authService,
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectBase + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		log: log,
	}
}

// Login handles GET /auth/google/login
func (h *OAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.config.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// Callback handles GET /auth/google/callback
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("oauth_state")
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid oauth state"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing authorization code"})
		return
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		respondError(w, h.log, fmt.Errorf("failed to exchange code: %w", err))
		return
	}

	info, err := h.fetchUserInfo(r, token)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	result, err := h.authService.LoginWithOAuth("google", info.ID, info.Email, info.Name, info.Picture)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (h *OAuthHandler) fetchUserInfo(r *http.Request, token *oauth2.Token) (*googleUserInfo, error) {
	client := h.config.Client(r.Context(), token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info request returned %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if info.ID == "" || info.Email == "" {
		return nil, fmt.Errorf("incomplete user info from provider")
	}

	return &info, nil
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
