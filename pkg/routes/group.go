package routes

import "net/http"

// Group organizes routes under a common prefix. Children inherit the
// prefix of every enclosing group.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Patterns returns the ServeMux patterns of the group and its children,
// parents first.
func (g Group) Patterns() []string {
	var patterns []string
	g.walk("", func(pattern string, _ http.HandlerFunc) {
		patterns = append(patterns, pattern)
	})
	return patterns
}

func (g Group) walk(parent string, fn func(pattern string, handler http.HandlerFunc)) {
	prefix := parent + g.Prefix
	for _, route := range g.Routes {
		fn(route.mux(prefix), route.Handler)
	}
	for _, child := range g.Children {
		child.walk(prefix, fn)
	}
}

// Register adds every route of groups to mux and returns the patterns it
// registered. It panics on conflicting patterns, as ServeMux does.
func Register(mux *http.ServeMux, groups ...Group) []string {
	var registered []string
	for _, group := range groups {
		group.walk("", func(pattern string, handler http.HandlerFunc) {
			mux.HandleFunc(pattern, handler)
			registered = append(registered, pattern)
		})
	}
	return registered
}
