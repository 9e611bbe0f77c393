package server

import (
	"embed"
	"html/template"
	"io/fs"

	apperrors "github.com/taskjarvis/web-gateway/internal/errors"
)

//go:embed templates/*
var templateFiles embed.FS

// initPageTemplates parses every embedded page template once at startup so a
// broken template fails the boot, not the first request.
func (s *Server) initPageTemplates() error {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return apperrors.Wrapf(err, "[Server.initPageTemplates]")
	}

	entries, err := fs.ReadDir(subFS, ".")
	if err != nil {
		return apperrors.Wrapf(err, "[Server.initPageTemplates]")
	}

	s.templates = make(map[string]*template.Template, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := fs.ReadFile(subFS, entry.Name())
		if err != nil {
			return apperrors.Wrapf(err, "[Server.initPageTemplates] read %q", entry.Name())
		}
		tmpl, err := template.New(entry.Name()).Parse(string(content))
		if err != nil {
			return apperrors.Wrapf(err, "[Server.initPageTemplates] parse %q", entry.Name())
		}
		s.templates[entry.Name()] = tmpl
	}
	return nil
}
