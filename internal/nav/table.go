package nav

import "strings"

// Session holds the two observable flags that gate route visibility.
// Both come from the authentication collaborator; the dispatcher only reads
// them.
type Session struct {
	Authenticated bool
	Loading       bool
}

// Match is the result of resolving a path: exactly one page, plus any path
// params the pattern captured.
type Match struct {
	Page   Page
	Params map[string]string
}

// Route associates a path pattern with a page.
//
// Pattern segments are literals, "{name}" params, or a single trailing
// "{name?}" optional param. Order in the table matters only for fallback:
// the first matching entry wins and not-found is the implicit last entry.
type Route struct {
	Pattern string
	Page    Page

	segments []segment
}

type segment struct {
	literal  string
	param    string
	optional bool
}

func newRoute(pattern string, page Page) Route {
	r := Route{Pattern: pattern, Page: page}
	for _, raw := range splitPath(pattern) {
		seg := segment{literal: raw}
		if strings.HasPrefix(raw, "{") && strings.HasSuffix(raw, "}") {
			name := raw[1 : len(raw)-1]
			seg.literal = ""
			if strings.HasSuffix(name, "?") {
				seg.optional = true
				name = name[:len(name)-1]
			}
			seg.param = name
		}
		r.segments = append(r.segments, seg)
	}
	return r
}

// match reports whether path matches this route and returns captured params.
func (r Route) match(path string) (map[string]string, bool) {
	segs := splitPath(path)

	var params map[string]string
	i := 0
	for _, want := range r.segments {
		if i >= len(segs) {
			if want.optional {
				continue
			}
			return nil, false
		}
		got := segs[i]
		switch {
		case want.param != "":
			if got == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string, 1)
			}
			params[want.param] = got
		case want.literal != got:
			return nil, false
		}
		i++
	}
	if i != len(segs) {
		return nil, false
	}
	return params, true
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Table is the ordered route table of the booking application.
type Table struct {
	public []Route
	authed []Route
}

// New returns the application route table.
//
// Unauthenticated (or still loading) sessions see only the landing route;
// authenticated sessions see the full application surface. Unmatched paths
// fall through to the not-found page in either mode.
func New() *Table {
	return &Table{
		public: []Route{
			newRoute("/", PageLanding),
		},
		authed: []Route{
			newRoute("/", PageHome),
			newRoute("/therapists", PageTherapistList),
			newRoute("/therapists/{id}", PageTherapistDetail),
			newRoute("/booking/{therapistId?}", PageBooking),
			newRoute("/booking-success/{bookingId}", PageBookingSuccess),
			newRoute("/booking-failure/{bookingId}", PageBookingFailure),
			newRoute("/client-dashboard", PageClientDashboard),
			newRoute("/therapist-dashboard", PageTherapistDashboard),
			newRoute("/register-therapist", PageTherapistRegister),
		},
	}
}

// Resolve selects exactly one page for the given session and path.
//
// A session that is loading is treated the same as an unauthenticated one:
// the landing page is the only visible route until the auth collaborator
// settles. "No match" is a normal outcome, not an error.
func (t *Table) Resolve(session Session, path string) Match {
	routes := t.authed
	if session.Loading || !session.Authenticated {
		routes = t.public
	}

	for _, route := range routes {
		if params, ok := route.match(path); ok {
			return Match{Page: route.Page, Params: params}
		}
	}
	return Match{Page: PageNotFound}
}
