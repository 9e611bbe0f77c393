package server

import (
	"net/http"
)

// renderPage executes a parsed page template. Template errors after the
// header is written can only be logged.
func (s *Server) renderPage(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.templates[name]
	if !ok {
		s.logger.Error().Str("template", name).Msg("Unknown page template")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error().Err(err).Str("template", name).Msg("Failed to render page")
	}
}

// IndexHandler renders the landing page. "GET /" matches everything the mux
// has no better pattern for, so unknown paths 404 here instead of rendering
// the landing page under a wrong URL.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" && r.URL.Path != RouteLanding {
			http.NotFound(w, r)
			return
		}

		identity, _ := IdentityFromHeaders(r)
		s.renderPage(w, "index.html", map[string]any{
			"AppName":       s.config.AppName,
			"Authenticated": identity.Authenticated,
		})
	}
}

// LoginPageHandler renders the login form. The gate has already bounced
// authenticated visitors to the dashboard before this runs.
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, "login.html", map[string]any{
			"AppName":  s.config.AppName,
			"Redirect": r.URL.Query().Get(redirectParam),
		})
	}
}

// RegisterPageHandler renders the signup form.
func (s *Server) RegisterPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, "register.html", map[string]any{
			"AppName": s.config.AppName,
		})
	}
}

// AppPageHandler renders a protected application page. The gate guarantees a
// valid session before this runs, so identity headers are always present;
// the page shell loads its data through the /api proxy.
func (s *Server) AppPageHandler(title, section string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromHeaders(r)
		if !ok || !identity.Authenticated {
			http.Redirect(w, r, loginRoute, http.StatusSeeOther)
			return
		}

		s.renderPage(w, "app.html", map[string]any{
			"AppName": s.config.AppName,
			"Title":   title,
			"Section": section,
			"Email":   identity.Email,
		})
	}
}
