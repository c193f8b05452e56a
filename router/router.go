// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/danielhkuo/polls-api/auth"
	"github.com/danielhkuo/polls-api/cliparse"
	"github.com/danielhkuo/polls-api/handlers"
	"github.com/danielhkuo/polls-api/metrics"
	"github.com/danielhkuo/polls-api/middleware"
	"github.com/danielhkuo/polls-api/route"
	"github.com/danielhkuo/polls-api/store"
)

// NewRouter builds the route table of the deployment described by cfg
func NewRouter(db *sql.DB, cfg cliparse.Config) (*route.Table, error) {
	var authn auth.Authenticator
	if cfg.Accounts {
		authn = auth.NewJWTAuthenticator(cfg.TokenSecret, cfg.TokenTTL)
	}
	return newTable(store.NewSQLStore(db, cfg.DatabaseType), authn, metrics.New(), cfg)
}

func newTable(s store.Store, authn auth.Authenticator, m *metrics.Metrics, cfg cliparse.Config) (*route.Table, error) {
	// Initialize handlers
	pollHandler := handlers.NewPollHandler(s)
	choiceHandler := handlers.NewChoiceHandler(s)
	voteHandler := handlers.NewVoteHandler(s)

	// wrap adds logging and metrics, and a token check on protected routes
	// when accounts are enabled
	wrap := func(name string, h http.HandlerFunc, protected bool) http.HandlerFunc {
		if protected && authn != nil {
			h = auth.Authenticate(authn, store.UserExists(s), true)(h)
		}
		return middleware.WithLogging(name, middleware.WithMetrics(m, name, h))
	}

	b := route.NewBuilder().
		RedirectSlash(true).
		NotFound(http.HandlerFunc(notFound)).
		MethodNotAllowed(http.HandlerFunc(methodNotAllowed))

	// Health check
	b.Handle("health", "/health", route.Methods{
		http.MethodGet: wrap("health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		}, false),
	})
	b.Handle("metrics", "/metrics", route.Methods{
		http.MethodGet: m.Handler().ServeHTTP,
	})

	switch cfg.Routes {
	case cliparse.RoutesExplicit:
		b.Handle("poll-list", "/polls/", route.Methods{
			http.MethodGet:  wrap("poll-list", pollHandler.List, true),
			http.MethodPost: wrap("poll-list", pollHandler.Create, true),
		})
		b.Handle("poll-detail", "/polls/{pk:int}/", route.Methods{
			http.MethodGet: wrap("poll-detail", pollHandler.Retrieve, true),
		})
	case cliparse.RoutesViewSet:
		b.Resource("polls", "polls", route.ResourceHandlers{
			List:          wrap("polls-list", pollHandler.List, true),
			Create:        wrap("polls-list", pollHandler.Create, true),
			Retrieve:      wrap("polls-detail", pollHandler.Retrieve, true),
			Update:        wrap("polls-detail", pollHandler.Update, true),
			PartialUpdate: wrap("polls-detail", pollHandler.PartialUpdate, true),
			Destroy:       wrap("polls-detail", pollHandler.Destroy, true),
		})
		b.APIRoot()
	default:
		return nil, fmt.Errorf("unknown route variant %q", cfg.Routes)
	}

	b.Handle("choice-list", "/polls/{pk:int}/choices/", route.Methods{
		http.MethodGet:  wrap("choice-list", choiceHandler.List, true),
		http.MethodPost: wrap("choice-list", choiceHandler.Create, true),
	})
	b.Handle("create-vote", "/polls/{pk:int}/choices/{choice_pk:int}/vote/", route.Methods{
		http.MethodPost: wrap("create-vote", voteHandler.Create, true),
	})

	// Accounts (public)
	if authn != nil {
		userHandler := handlers.NewUserHandler(s, authn)
		b.Handle("user-create", "/users/", route.Methods{
			http.MethodPost: wrap("user-create", userHandler.Create, false),
		})
		b.Handle("login", "/login/", route.Methods{
			http.MethodPost: wrap("login", userHandler.Login, false),
		})
	}

	return b.Build()
}

func notFound(w http.ResponseWriter, r *http.Request) {
	middleware.ErrorResponse(w, http.StatusNotFound, "Not found.")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	middleware.ErrorResponse(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %q not allowed.", r.Method))
}
