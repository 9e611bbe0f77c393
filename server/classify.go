package server

import "strings"

// RouteClass buckets a request path for the access gate. Classification is
// total and mutually exclusive: every path lands in exactly one bucket.
type RouteClass int

const (
	// RoutePublic paths have no session requirement. This is also the
	// default bucket for unmatched paths, so a newly added page fails open
	// to "render without identity" rather than locking users out.
	RoutePublic RouteClass = iota
	// RouteProtected paths require a valid session.
	RouteProtected
	// RouteAuthOnly paths (login, register) redirect away when a session
	// already exists.
	RouteAuthOnly
)

func (c RouteClass) String() string {
	switch c {
	case RouteProtected:
		return "protected"
	case RouteAuthOnly:
		return "auth-only"
	}
	return "public"
}

// rule is one (pattern, class) entry in the classification table.
type rule struct {
	prefix string
	exact  bool
	class  RouteClass
}

// Classifier maps request paths to route classes using an ordered rule
// table. First match wins.
type Classifier struct {
	rules []rule
}

// NewClassifier builds the gateway's route table: the application page tree,
// the auth pages, and the public landing pages.
func NewClassifier() *Classifier {
	c := &Classifier{}

	for _, p := range []string{
		"/dashboard",
		"/profile",
		"/settings",
		"/tasks",
		"/workspaces",
		"/analytics",
		"/assistant",
	} {
		c.Protect(p)
	}

	c.AuthOnly("/login")
	c.AuthOnly("/register")

	c.Public("/")
	c.Public("/landing")

	return c
}

// Protect registers a path prefix that requires a valid session.
func (c *Classifier) Protect(prefix string) {
	c.rules = append(c.rules, rule{prefix: prefix, class: RouteProtected})
}

// AuthOnly registers a path prefix for unauthenticated visitors only.
func (c *Classifier) AuthOnly(prefix string) {
	c.rules = append(c.rules, rule{prefix: prefix, class: RouteAuthOnly})
}

// Public registers an exact public path. Exact matching keeps "/" from
// swallowing the whole tree.
func (c *Classifier) Public(path string) {
	c.rules = append(c.rules, rule{prefix: path, exact: true, class: RoutePublic})
}

// Classify returns the route class for a request path. Unmatched paths are
// public.
func (c *Classifier) Classify(path string) RouteClass {
	for _, r := range c.rules {
		if r.exact {
			if path == r.prefix {
				return r.class
			}
			continue
		}
		if strings.HasPrefix(path, r.prefix) {
			return r.class
		}
	}
	return RoutePublic
}

// Bypassed reports whether the gate skips a path entirely: the API surface,
// static assets, and anything with a file extension.
func Bypassed(path string) bool {
	return strings.HasPrefix(path, "/api") ||
		strings.HasPrefix(path, "/static") ||
		strings.Contains(path, ".")
}
