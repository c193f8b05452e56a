// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package route

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
)

var ErrDuplicateRoute = errors.New("duplicate route name")

// ResourceHandlers are the handlers of a full-CRUD resource. A nil
// handler leaves its method unregistered.
type ResourceHandlers struct {
	List          http.HandlerFunc
	Create        http.HandlerFunc
	Retrieve      http.HandlerFunc
	Update        http.HandlerFunc
	PartialUpdate http.HandlerFunc
	Destroy       http.HandlerFunc
}

type pendingRoute struct {
	name      string
	pattern   string
	methods   Methods
	generated bool
}

type resource struct {
	basename string
	prefix   string
	handlers ResourceHandlers
}

// Builder collects route declarations and compiles them into a Table.
// Explicit routes keep their declaration order; routes generated by
// Resource are appended after all of them.
type Builder struct {
	explicit         []pendingRoute
	resources        []resource
	apiRoot          bool
	redirectSlash    bool
	notFound         http.Handler
	methodNotAllowed http.Handler
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Handle declares an explicit route.
func (b *Builder) Handle(name, pattern string, methods Methods) *Builder {
	b.explicit = append(b.explicit, pendingRoute{name: name, pattern: pattern, methods: methods})
	return b
}

// Resource registers a full-CRUD resource under /prefix/. It generates
// "<basename>-list" on /prefix/ (List, Create) and "<basename>-detail"
// on /prefix/{pk:int}/ (Retrieve, Update, PartialUpdate, Destroy).
func (b *Builder) Resource(basename, prefix string, h ResourceHandlers) *Builder {
	b.resources = append(b.resources, resource{basename: basename, prefix: prefix, handlers: h})
	return b
}

// APIRoot adds an "api-root" route on / listing the registered resources.
func (b *Builder) APIRoot() *Builder {
	b.apiRoot = true
	return b
}

// RedirectSlash makes the table redirect GET and HEAD requests that only
// miss a trailing slash.
func (b *Builder) RedirectSlash(on bool) *Builder {
	b.redirectSlash = on
	return b
}

func (b *Builder) NotFound(h http.Handler) *Builder {
	b.notFound = h
	return b
}

func (b *Builder) MethodNotAllowed(h http.Handler) *Builder {
	b.methodNotAllowed = h
	return b
}

// Build compiles the declarations. The returned Table does not share
// state with the Builder.
func (b *Builder) Build() (*Table, error) {
	pending := make([]pendingRoute, 0, len(b.explicit)+2*len(b.resources)+1)
	pending = append(pending, b.explicit...)
	for _, res := range b.resources {
		pending = append(pending, res.routes()...)
	}
	if b.apiRoot && len(b.resources) > 0 {
		pending = append(pending, pendingRoute{
			name:      "api-root",
			pattern:   "/",
			methods:   Methods{http.MethodGet: apiRootHandler(append([]resource(nil), b.resources...))},
			generated: true,
		})
	}

	t := &Table{
		redirectSlash:    b.redirectSlash,
		notFound:         b.notFound,
		methodNotAllowed: b.methodNotAllowed,
	}
	if t.notFound == nil {
		t.notFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, ErrRouteNotFound.Error(), http.StatusNotFound)
		})
	}
	if t.methodNotAllowed == nil {
		t.methodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, ErrMethodNotAllowed.Error(), http.StatusMethodNotAllowed)
		})
	}

	names := make(map[string]bool, len(pending))
	for _, p := range pending {
		rt, err := compile(p)
		if err != nil {
			return nil, err
		}
		if rt == nil {
			continue
		}
		if names[rt.name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRoute, rt.name)
		}
		names[rt.name] = true
		t.routes = append(t.routes, *rt)
	}

	return t, nil
}

// compile returns nil for a generated route that ended up with no methods.
func compile(p pendingRoute) (*compiledRoute, error) {
	if p.name == "" {
		return nil, fmt.Errorf("route %q has no name", p.pattern)
	}
	pattern, err := ParsePattern(p.pattern)
	if err != nil {
		return nil, fmt.Errorf("route %q: %w", p.name, err)
	}

	methods := make(Methods, len(p.methods))
	allowed := make([]string, 0, len(p.methods)+1)
	for m, h := range p.methods {
		if !validMethod(m) {
			return nil, fmt.Errorf("route %q: invalid method %q", p.name, m)
		}
		if h == nil {
			return nil, fmt.Errorf("route %q: nil handler for %s", p.name, m)
		}
		methods[m] = h
		allowed = append(allowed, m)
	}
	if len(methods) == 0 {
		if p.generated {
			return nil, nil
		}
		return nil, fmt.Errorf("route %q has no methods", p.name)
	}
	if _, ok := methods[http.MethodGet]; ok {
		if _, ok := methods[http.MethodHead]; !ok {
			allowed = append(allowed, http.MethodHead)
		}
	}
	sort.Strings(allowed)

	return &compiledRoute{name: p.name, pattern: pattern, methods: methods, allowed: allowed}, nil
}

func (res resource) routes() []pendingRoute {
	list := Methods{}
	if res.handlers.List != nil {
		list[http.MethodGet] = res.handlers.List
	}
	if res.handlers.Create != nil {
		list[http.MethodPost] = res.handlers.Create
	}

	detail := Methods{}
	if res.handlers.Retrieve != nil {
		detail[http.MethodGet] = res.handlers.Retrieve
	}
	if res.handlers.Update != nil {
		detail[http.MethodPut] = res.handlers.Update
	}
	if res.handlers.PartialUpdate != nil {
		detail[http.MethodPatch] = res.handlers.PartialUpdate
	}
	if res.handlers.Destroy != nil {
		detail[http.MethodDelete] = res.handlers.Destroy
	}

	return []pendingRoute{
		{name: res.basename + "-list", pattern: "/" + res.prefix + "/", methods: list, generated: true},
		{name: res.basename + "-detail", pattern: "/" + res.prefix + "/{pk:int}/", methods: detail, generated: true},
	}
}

func apiRootHandler(resources []resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}

		links := make(map[string]string, len(resources))
		for _, res := range resources {
			links[res.prefix] = scheme + "://" + r.Host + "/" + res.prefix + "/"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(links)
	}
}

func validMethod(m string) bool {
	if m == "" {
		return false
	}
	for i := 0; i < len(m); i++ {
		if m[i] < 'A' || m[i] > 'Z' {
			return false
		}
	}
	return true
}
