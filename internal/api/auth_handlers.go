package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/domain/user"
)

// AuthHandlers bridges the hosted identity provider and our own users
// table. Sign-in happens at the provider; we only sync the account and
// issue an API token.
type AuthHandlers struct {
	users         *user.Service
	jwtService    *auth.JWTService
	webhookSecret string
}

func NewAuthHandlers(users *user.Service, jwtService *auth.JWTService, webhookSecret string) *AuthHandlers {
	return &AuthHandlers{
		users:         users,
		jwtService:    jwtService,
		webhookSecret: webhookSecret,
	}
}

type clerkSyncRequest struct {
	ClerkID string `json:"clerkId"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

type authResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// ClerkSync finds or creates the user for the given provider account and
// returns a bearer token for the API.
func (h *AuthHandlers) ClerkSync(w http.ResponseWriter, r *http.Request) {
	var req clerkSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.Sync(r.Context(), req.ClerkID, req.Email, req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	token, _, err := h.jwtService.GenerateToken(u.ID, u.Email, u.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, User: u})
}

// Me returns the authenticated user's profile.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.users.Get(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

type clerkWebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// ClerkWebhook creates users pushed from the identity provider. The svix
// signature over "{id}.{timestamp}.{body}" is verified before anything is
// trusted.
func (h *AuthHandlers) ClerkWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	if !h.verifyWebhook(payload, r.Header.Get("svix-id"), r.Header.Get("svix-timestamp"), r.Header.Get("svix-signature")) {
		respondError(w, http.StatusBadRequest, "invalid webhook signature")
		return
	}

	var event clerkWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if event.Type == "user.created" {
		email := ""
		if len(event.Data.EmailAddresses) > 0 {
			email = event.Data.EmailAddresses[0].EmailAddress
		}
		name := strings.TrimSpace(event.Data.FirstName + " " + event.Data.LastName)

		if _, err := h.users.Sync(r.Context(), event.Data.ID, email, name); err != nil {
			respondServiceError(w, err)
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}

// verifyWebhook checks the svix-style HMAC-SHA256 signature. The signature
// header may carry several space-separated "v1,<base64>" candidates.
func (h *AuthHandlers) verifyWebhook(payload []byte, msgID, timestamp, signatureHeader string) bool {
	if h.webhookSecret == "" || msgID == "" || timestamp == "" || signatureHeader == "" {
		return false
	}

	secret, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(h.webhookSecret, "whsec_"))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(msgID + "." + timestamp + "."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, candidate := range strings.Fields(signatureHeader) {
		parts := strings.SplitN(candidate, ",", 2)
		if len(parts) != 2 || parts[0] != "v1" {
			continue
		}
		sig, err := base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			continue
		}
		if hmac.Equal(sig, expected) {
			return true
		}
	}
	return false
}
