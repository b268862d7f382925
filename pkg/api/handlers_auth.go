package api

import (
	"net/http"
	"time"

	"github.com/dd0wney/cluso-reach/pkg/auth"
	"github.com/dd0wney/cluso-reach/pkg/logging"
)

// handleToken trades a valid API key for a short-lived bearer token.
// The key can arrive in the X-API-Key header or the request body.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.jwt == nil || s.cfg.Server.APIKeyHash == "" {
		s.respondError(w, http.StatusServiceUnavailable, "token auth not configured")
		return
	}

	apiKey := r.Header.Get("X-API-Key")
	if apiKey == "" {
		var req TokenRequest
		decoder := s.NewRequestDecoder(w, r)
		decoder.DecodeJSON(&req)
		if decoder.RespondError() {
			return
		}
		apiKey = req.APIKey
	}
	if apiKey == "" {
		s.respondError(w, http.StatusBadRequest, "missing API key")
		return
	}

	if !auth.VerifyAPIKey(apiKey, s.cfg.Server.APIKeyHash) {
		s.logger.Warn("token request with invalid api key")
		s.respondError(w, http.StatusUnauthorized, "invalid API key")
		return
	}

	token, err := s.jwt.GenerateToken("api-key")
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "generate token"))
		return
	}

	s.logger.Info("bearer token issued", logging.String("subject", "api-key"))
	s.respondJSON(w, http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.jwt.TokenDuration()),
	})
}
