// Package routes turns the registered entities into CRUD routes on the
// server's router. Each (entity, operation) pair compiles once into a
// pipeline of authorize, validate and query stages; configuration problems
// surface at mount time, not at first request.
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zazapeta/restify/pkg/config"
	"github.com/zazapeta/restify/pkg/credentials"
	"github.com/zazapeta/restify/pkg/registry"
	"github.com/zazapeta/restify/pkg/restify"
	"github.com/zazapeta/restify/pkg/server"
	"github.com/zazapeta/restify/pkg/server/middleware"
	"github.com/zazapeta/restify/pkg/server/openapi"
	"github.com/zazapeta/restify/pkg/store"
	"github.com/zazapeta/restify/pkg/token"
)

// Deps carries everything Mount needs.
type Deps struct {
	Registry *registry.Registry
	Store    store.EntityStore
	Config   *config.Config

	// Credentials overrides the key-derivation work factor. The zero value
	// uses production defaults; tests lower it.
	Credentials credentials.Config
}

type mounter struct {
	router      *mux.Router
	store       store.EntityStore
	cfg         *config.Config
	defaultAuth restify.AuthHandlerFunc
	creds       *credentials.Store
	tokens      *token.Service
}

// Mount validates the configuration, wires the default authorization flow
// and registers the five CRUD routes for every routable entity.
func Mount(srv *server.Server, deps Deps) error {
	entities := deps.Registry.Entities()
	if err := deps.Config.Auth.Validate(len(entities) > 0); err != nil {
		return err
	}
	if err := deps.Config.Docs.Validate(); err != nil {
		return err
	}

	m := &mounter{
		router: srv.Router,
		store:  deps.Store,
		cfg:    deps.Config,
	}

	switch deps.Config.Auth.Mode {
	case config.ModeToken:
		creds, err := credentials.New(
			deps.Config.Auth.IdentityModel,
			deps.Store,
			deps.Config.Auth.IdentityField,
			deps.Config.Auth.SecretField,
			deps.Credentials,
		)
		if err != nil {
			return err
		}
		tokens, err := token.NewService([]byte(deps.Config.Auth.Secret), deps.Config.Auth.TokenTTL())
		if err != nil {
			return err
		}
		m.creds = creds
		m.tokens = tokens
		authorizer := middleware.NewTokenAuthorizer(
			tokens, creds, deps.Config.Auth.HeaderName, deps.Config.Auth.RoleDeriver)
		m.defaultAuth = authorizer.Handler()
		m.router.HandleFunc(deps.Config.Auth.LoginPath, m.login).
			Methods(deps.Config.Auth.LoginMethod)
	case config.ModeCustom:
		m.defaultAuth = deps.Config.Auth.Custom
	case config.ModeNone:
		// Operations without their own auth entry are open. An explicit
		// Deny() on an operation still wins over this default.
		m.defaultAuth = func(*http.Request) (restify.Result, error) {
			return restify.Result{Authenticated: true}, nil
		}
	}

	for _, e := range entities {
		m.mountEntity(e)
	}

	if deps.Config.Docs.Enabled() {
		doc, err := openapi.Document(deps.Registry, deps.Config.Docs.Title, deps.Config.Docs.Version)
		if err != nil {
			return err
		}
		if deps.Config.Docs.OutputFile != "" {
			if err := openapi.Write(doc, deps.Config.Docs.OutputFile); err != nil {
				return err
			}
		} else {
			m.router.Handle(deps.Config.Docs.ServePath, openapi.Handler(doc)).Methods("GET")
		}
	}
	return nil
}

func (m *mounter) mountEntity(e *registry.Entity) {
	base := "/" + e.Path
	keyed := base + "/{id}"
	m.router.Handle(base, m.compile(e, restify.Create)).Methods("POST")
	m.router.Handle(keyed, m.compile(e, restify.ReadOne)).Methods("GET")
	m.router.Handle(base, m.compile(e, restify.ReadAll)).Methods("GET")
	m.router.Handle(keyed, m.compile(e, restify.Update)).Methods("PUT")
	m.router.Handle(keyed, m.compile(e, restify.Delete)).Methods("DELETE")
}

// login exchanges identity-field and secret-field credentials for a signed
// token. Missing identities and wrong secrets get the same response.
func (m *mounter) login(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON object", nil)
		return
	}
	identityValue, _ := body[m.cfg.Auth.IdentityField].(string)
	secret, _ := body[m.cfg.Auth.SecretField].(string)
	if identityValue == "" || secret == "" {
		writeError(w, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	if _, ok := m.creds.Authenticate(r.Context(), identityValue, secret); !ok {
		writeError(w, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	signed, err := m.tokens.Issue(identityValue)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "an internal error occurred", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": signed})
}
