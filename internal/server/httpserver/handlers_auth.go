package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/knowledgehub/internal/common"
	"github.com/dmitrijs2005/knowledgehub/internal/server/auth"
	"github.com/dmitrijs2005/knowledgehub/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
)

type loginResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Field    string `json:"field,omitempty"`
	Username string `json:"username,omitempty"`
}

// handleLoginPage sends an already signed-in admin to the dashboard and
// drops a cookie that no longer verifies.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if token, ok := auth.SessionToken(r); ok {
		if _, err := s.sessions.Verify(token); err == nil {
			http.Redirect(w, r, common.DashboardPath, http.StatusFound)
			return
		}
		auth.ClearSession(w)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": false})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	in := services.LoginInput{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	token, err := s.auth.Login(ctx, in)
	if err != nil {
		var ve *common.ValidationError
		switch {
		case errors.As(err, &ve):
			s.countLogin("invalid_input")
			writeJSON(w, http.StatusBadRequest, loginResponse{Message: ve.Message, Field: ve.Field, Username: in.Username})
		case errors.Is(err, common.ErrorUnauthorized):
			s.countLogin("rejected")
			s.logger.Info(ctx, "login rejected", "ip", clientIP(r))
			writeJSON(w, http.StatusBadRequest, loginResponse{Message: services.InvalidCredentialsMessage, Username: in.Username})
		default:
			s.countLogin("error")
			s.logger.Error(ctx, "login failed", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	s.countLogin("success")
	auth.SetSession(w, token)
	http.Redirect(w, r, common.DashboardPath, http.StatusFound)
}

// handleLogout works with or without a session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	http.Redirect(w, r, common.LoginPath, http.StatusFound)
}

func (s *Server) handleUpdateCredentials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := auth.IdentityFrom(ctx)
	if !ok {
		http.Redirect(w, r, common.LoginPath, http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	in := services.CredentialsInput{
		CurrentPassword: r.PostFormValue("current_password"),
		Username:        r.PostFormValue("username"),
		NewPassword:     r.PostFormValue("new_password"),
	}

	if err := s.auth.UpdateCredentials(ctx, identity.UserID, in); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			auth.ClearSession(w)
			http.Redirect(w, r, common.LoginPath, http.StatusFound)
			return
		}
		writeError(ctx, s.logger, w, err, "Admin not found", "Failed to update credentials")
		return
	}

	writeMessage(w, http.StatusOK, "Admin credentials updated successfully")
}

func (s *Server) countLogin(result string) {
	if s.metrics != nil {
		s.metrics.CounterLoginAttempts.With(prometheus.Labels{"result": result}).Inc()
	}
}
