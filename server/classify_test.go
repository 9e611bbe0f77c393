package server_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskjarvis/web-gateway/server"
)

func TestClassify(t *testing.T) {
	classifier := server.NewClassifier()

	tests := []struct {
		path string
		want server.RouteClass
	}{
		{"/dashboard", server.RouteProtected},
		{"/dashboard/widgets", server.RouteProtected},
		{"/profile", server.RouteProtected},
		{"/settings", server.RouteProtected},
		{"/tasks", server.RouteProtected},
		{"/tasks/42", server.RouteProtected},
		{"/workspaces", server.RouteProtected},
		{"/analytics", server.RouteProtected},
		{"/assistant", server.RouteProtected},
		{"/login", server.RouteAuthOnly},
		{"/register", server.RouteAuthOnly},
		{"/", server.RoutePublic},
		{"/landing", server.RoutePublic},
		{"/pricing", server.RoutePublic},
		{"/blog/some-post", server.RoutePublic},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			require.Equal(t, tc.want, classifier.Classify(tc.path))
		})
	}
}

func TestClassifyCustomTable(t *testing.T) {
	classifier := &server.Classifier{}
	classifier.Public("/reports")
	classifier.Protect("/reports")

	t.Run("first match wins", func(t *testing.T) {
		require.Equal(t, server.RoutePublic, classifier.Classify("/reports"))
		require.Equal(t, server.RouteProtected, classifier.Classify("/reports/q3"))
	})
}

func TestBypassed(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/api/tasks", true},
		{"/api/auth/login", true},
		{"/static/app.js", true},
		{"/favicon.ico", true},
		{"/images/logo.png", true},
		{"/dashboard", false},
		{"/login", false},
		{"/", false},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			require.Equal(t, tc.want, server.Bypassed(tc.path))
		})
	}
}

func TestRouteClassString(t *testing.T) {
	require.Equal(t, "public", server.RoutePublic.String())
	require.Equal(t, "protected", server.RouteProtected.String())
	require.Equal(t, "auth-only", server.RouteAuthOnly.String())
}
