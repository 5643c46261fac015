package auth

import "pizzeria/internal/model"

// Route is the access class of an endpoint.
type Route int

const (
	// RoutePublic needs no session.
	RoutePublic Route = iota
	// RouteCustomer needs any signed-in user.
	RouteCustomer
	// RouteAdmin needs a profile whose stored role is admin.
	RouteAdmin
)

func (r Route) String() string {
	switch r {
	case RoutePublic:
		return "public"
	case RouteCustomer:
		return "customer"
	case RouteAdmin:
		return "admin"
	}
	return "unknown"
}

// CanAccess is the single authorization predicate. p must come from the
// profile store, not from token claims.
func CanAccess(route Route, p *model.Profile) bool {
	switch route {
	case RoutePublic:
		return true
	case RouteCustomer:
		return p != nil
	case RouteAdmin:
		return p.IsAdmin()
	}
	return false
}
