// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package route

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrRouteNotFound    = errors.New("route not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// MethodNotAllowedError is returned by Lookup when the path matched at
// least one route but none of them accepts the method.
type MethodNotAllowedError struct {
	Method  string
	Path    string
	Allowed []string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %s not allowed for %s (allowed: %s)",
		e.Method, e.Path, strings.Join(e.Allowed, ", "))
}

func (e *MethodNotAllowedError) Unwrap() error {
	return ErrMethodNotAllowed
}

// Methods maps an HTTP method to the handler serving it.
type Methods map[string]http.HandlerFunc

type compiledRoute struct {
	name    string
	pattern *Pattern
	methods Methods
	allowed []string
}

func (rt *compiledRoute) handlerFor(method string) http.HandlerFunc {
	if h, ok := rt.methods[method]; ok {
		return h
	}
	if method == http.MethodHead {
		return rt.methods[http.MethodGet]
	}
	return nil
}

// Match is the result of a successful Lookup.
type Match struct {
	Name    string
	Pattern string
	Handler http.HandlerFunc
	Params  Params
}

// RouteInfo describes one registered route.
type RouteInfo struct {
	Name    string
	Pattern string
	Methods []string
}

// Table is an immutable, ordered routing table. It is safe for
// concurrent use; build one with a Builder.
type Table struct {
	routes           []compiledRoute
	redirectSlash    bool
	notFound         http.Handler
	methodNotAllowed http.Handler
}

// Lookup scans the routes in declaration order and returns the first
// one whose pattern matches path and which accepts method.
func (t *Table) Lookup(method, path string) (Match, error) {
	var allowed []string
	for i := range t.routes {
		rt := &t.routes[i]
		params, ok := rt.pattern.Match(path)
		if !ok {
			continue
		}
		if h := rt.handlerFor(method); h != nil {
			return Match{
				Name:    rt.name,
				Pattern: rt.pattern.String(),
				Handler: h,
				Params:  params,
			}, nil
		}
		allowed = mergeMethods(allowed, rt.allowed)
	}

	if allowed != nil {
		return Match{}, &MethodNotAllowedError{Method: method, Path: path, Allowed: allowed}
	}
	return Match{}, ErrRouteNotFound
}

// Routes lists the table in dispatch order.
func (t *Table) Routes() []RouteInfo {
	infos := make([]RouteInfo, 0, len(t.routes))
	for _, rt := range t.routes {
		methods := make([]string, len(rt.allowed))
		copy(methods, rt.allowed)
		infos = append(infos, RouteInfo{Name: rt.name, Pattern: rt.pattern.String(), Methods: methods})
	}
	return infos
}

func (t *Table) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m, err := t.Lookup(r.Method, r.URL.Path)
	if err != nil {
		if t.redirectSlash && errors.Is(err, ErrRouteNotFound) && t.trySlashRedirect(w, r) {
			return
		}

		var mna *MethodNotAllowedError
		if errors.As(err, &mna) {
			w.Header().Set("Allow", strings.Join(mna.Allowed, ", "))
			t.methodNotAllowed.ServeHTTP(w, r)
			return
		}
		t.notFound.ServeHTTP(w, r)
		return
	}

	r = r.WithContext(withMatch(r.Context(), m))
	for _, p := range m.Params.list {
		r.SetPathValue(p.Name, p.Value)
	}
	m.Handler(w, r)
}

// trySlashRedirect answers a GET or HEAD for /polls with a permanent
// redirect to /polls/ when only the slashed form is routable.
func (t *Table) trySlashRedirect(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	path := r.URL.Path
	if strings.HasSuffix(path, "/") {
		return false
	}
	if _, err := t.Lookup(r.Method, path+"/"); err != nil {
		return false
	}

	target := path + "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
	return true
}

func mergeMethods(dst, src []string) []string {
	for _, m := range src {
		found := false
		for _, d := range dst {
			if d == m {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, m)
		}
	}
	sort.Strings(dst)
	return dst
}
