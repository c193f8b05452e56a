// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the route table of each deployment of the polls API.

# Route Registration

NewRouter builds an immutable route.Table for the configuration:

	table, err := router.NewRouter(db, cfg)

# Endpoints

Always:

	GET  /health   - Health check
	GET  /metrics  - Prometheus metrics

Explicit variant (cfg.Routes == "explicit"):

	GET/POST /polls/                           poll-list
	GET      /polls/{pk}/                      poll-detail
	GET/POST /polls/{pk}/choices/              choice-list
	POST     /polls/{pk}/choices/{choice_pk}/vote/  create-vote

ViewSet variant (cfg.Routes == "viewset"): choice-list and create-vote as
above, followed by the generated polls resource:

	GET/POST                /polls/       polls-list
	GET/PUT/PATCH/DELETE    /polls/{pk}/  polls-detail
	GET                     /             api-root

Accounts (cfg.Accounts):

	POST /users/  user-create
	POST /login/  login

With accounts enabled every poll, choice and vote route requires a bearer
token. Without them all routes are anonymous.

# Middleware

Each handler is wrapped with request logging and metrics under its route
name. GET and HEAD requests that only miss a trailing slash are redirected.
*/
package router
