package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"mood-aware-chat/internal/domain"
	"mood-aware-chat/internal/infra/logging"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply        string `json:"reply"`
	YourMood     string `json:"your_mood"`
	DominantMood string `json:"dominant_mood"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := s.userUC.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			writeError(w, http.StatusBadRequest, "email already registered")
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "invalid email or password")
		default:
			s.internal(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": u.ID, "email": u.Email})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := s.userUC.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "could not validate credentials")
			return
		}
		s.internal(w, r, err)
		return
	}
	token, err := s.auth.Mint(u.ID, u.Email)
	if err != nil {
		s.internal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "email": claims.Email})
}

// handleChat runs one turn. Any pipeline failure surfaces as a flat 500; the
// cause stays in the logs, not the response.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	claims := claimsFrom(r.Context())
	res, err := s.turnUC.HandleTurn(r.Context(), claims.Subject, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "message must not be empty")
		case errors.Is(err, domain.ErrNotFound):
			// Valid signature but the account is gone.
			writeError(w, http.StatusUnauthorized, "could not validate credentials")
		case errors.Is(err, domain.ErrTurnInProgress):
			writeError(w, http.StatusConflict, "another message is being processed")
		default:
			s.internal(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{
		Reply:        res.Reply,
		YourMood:     string(res.Mood),
		DominantMood: string(res.DominantMood),
	})
}

func (s *Server) handleMoodProfile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	p, err := s.profileUC.DominantMood(r.Context(), claims.Subject)
	if err != nil {
		s.internal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"dominant_mood": string(p.DominantMood)})
}

func (s *Server) internal(w http.ResponseWriter, r *http.Request, err error) {
	logging.With(r.Context(), s.log).Error().Err(err).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "processing error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
