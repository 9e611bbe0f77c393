package server

func (s *Server) initRoutes() {
	// Pages. "GET /" catches the landing page and everything unmatched.
	s.RegisterRouteFunc("GET /", ChainMiddleware(s.IndexHandler(), s.PageMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteLanding, ChainMiddleware(s.IndexHandler(), s.PageMiddleware()...))

	s.RegisterRouteFunc("GET "+RouteLoginPage, ChainMiddleware(s.LoginPageHandler(), s.PageMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteRegisterPage, ChainMiddleware(s.RegisterPageHandler(), s.PageMiddleware()...))

	s.RegisterRouteFunc("GET "+RouteDashboard, ChainMiddleware(s.AppPageHandler("Dashboard", "dashboard"), s.PageMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteTasks, ChainMiddleware(s.AppPageHandler("Tasks", "tasks"), s.PageMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteWorkspaces, ChainMiddleware(s.AppPageHandler("Workspaces", "workspaces"), s.PageMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteAssistant, ChainMiddleware(s.AppPageHandler("Assistant", "assistant"), s.PageMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteAnalytics, ChainMiddleware(s.AppPageHandler("Analytics", "analytics"), s.PageMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteProfile, ChainMiddleware(s.AppPageHandler("Profile", "profile"), s.PageMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteSettings, ChainMiddleware(s.AppPageHandler("Settings", "settings"), s.PageMiddleware()...))

	// Auth proxy endpoints.
	s.RegisterRouteFunc("POST "+RouteAPIAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAPIAuthRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAPIAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAPIAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteAPIAuthMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware()...))

	// Data proxy subtrees. Both the bare collection path and the subtree are
	// registered so POST /api/tasks is not bounced through a 301.
	for _, subtree := range []string{
		RouteAPITasks,
		RouteAPIWorkspaces,
		RouteAPIAssistant,
		RouteAPIAnalytics,
	} {
		proxy := ChainMiddleware(s.ProxyHandler(), s.APIMiddleware()...)
		s.RegisterRouteFunc(subtree, proxy)
		s.RegisterRouteFunc(subtree[:len(subtree)-1], proxy)
	}
}
