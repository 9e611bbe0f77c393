package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Page Routes - Public
	RouteLanding = "/landing"

	// Page Routes - Auth-only
	RouteLoginPage    = "/login"
	RouteRegisterPage = "/register"

	// Page Routes - Protected
	RouteDashboard  = "/dashboard"
	RouteTasks      = "/tasks"
	RouteWorkspaces = "/workspaces"
	RouteAssistant  = "/assistant"
	RouteAnalytics  = "/analytics"
	RouteProfile    = "/profile"
	RouteSettings   = "/settings"

	// API Routes - Auth
	RouteAPIAuthLogin    = "/api/auth/login"
	RouteAPIAuthRegister = "/api/auth/register"
	RouteAPIAuthRefresh  = "/api/auth/refresh"
	RouteAPIAuthLogout   = "/api/auth/logout"
	RouteAPIAuthMe       = "/api/auth/me"

	// API Routes - Data proxy (subtree patterns)
	RouteAPITasks      = "/api/tasks/"
	RouteAPIWorkspaces = "/api/workspaces/"
	RouteAPIAssistant  = "/api/assistant/"
	RouteAPIAnalytics  = "/api/analytics/"
)
