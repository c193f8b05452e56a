// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package route implements the ordered routing table that maps an HTTP
method and path to a handler.

# Patterns

Paths are matched against templates with typed placeholders:

	/polls/                               literal only
	/polls/{pk:int}/                      decimal integer placeholder
	/polls/{pk:int}/choices/{choice_pk:int}/vote/

A segment that is not all digits never matches an {name:int}
placeholder, so GET /polls/abc/ finds no poll detail route. Matching is
anchored and the trailing slash is part of the pattern.

# Building a Table

	table, err := route.NewBuilder().
		Handle("choice-list", "/polls/{pk:int}/choices/", route.Methods{
			http.MethodGet:  choices.List,
			http.MethodPost: choices.Create,
		}).
		Resource("polls", "polls", route.ResourceHandlers{...}).
		Build()

Routes are tried in declaration order and the first one accepting both
path and method wins. Resource routes are appended after every explicit
route, so an explicit route shadows a generated one on the same path.

# Failures

Lookup returns ErrRouteNotFound when no pattern matches and a
*MethodNotAllowedError (errors.Is ErrMethodNotAllowed) when a pattern
matched under another method. ServeHTTP turns these into 404 and 405
responses, the latter with an Allow header.

# Handlers

Handlers are plain http.HandlerFunc values. Typed params are read back
from the request context:

	pk, ok := route.ParamsFrom(r.Context()).Int("pk")

The raw values are also available through r.PathValue.
*/
package route
