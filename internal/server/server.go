// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server exposes the six registered operations (spec §6) over HTTP,
// so the plug-in is independently operable outside of being embedded in a
// host's own SQL surface. Routing follows the teacher's chi-router shape
// (internal/server/web.go): one router, middleware stack, JSON responses
// via go-chi/render.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"semlayer/internal/errs"
	"semlayer/internal/log"
	"semlayer/internal/registry"
)

// Server wires the registered operations to chi routes.
type Server struct {
	router chi.Router
	deps   registry.Deps
	ops    map[string]registry.Operation
	logger log.Logger
}

// New builds a Server bound to deps. Every operation registered against
// internal/registry at import time (via each package's own init()) is
// reachable over HTTP.
func New(deps registry.Deps) *Server {
	s := &Server{
		deps:   deps,
		ops:    registry.Build(deps),
		logger: deps.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(requestLogger(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusOK)
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	r.Route("/views", func(r chi.Router) {
		r.Post("/", s.handleDefine)
		r.Get("/", s.handleList)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.handleDescribe)
			r.Delete("/", s.handleDrop)
		})
	})
	r.Post("/query/{name}", s.handleQuery)
	r.Post("/explain/{name}", s.handleExplain)

	return r
}

func requestLogger(logger log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			if logger != nil {
				logger.InfoContext(r.Context(), "request handled",
					"method", r.Method, "path", r.URL.Path, "duration", time.Since(start).String())
			}
		})
	}
}

type defineRequest struct {
	Name string `json:"name"`
	JSON string `json:"json"`
}

func (s *Server) handleDefine(w http.ResponseWriter, r *http.Request) {
	var body defineRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, &errs.MalformedDefinition{View: "", Reason: "invalid request body", Cause: err})
		return
	}
	result, err := registry.MustInvoke(r.Context(), s.ops, "define_semantic_view", map[string]any{
		"name": body.Name, "json": body.JSON,
	})
	respond(w, r, result, err)
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	result, err := registry.MustInvoke(r.Context(), s.ops, "drop_semantic_view", map[string]any{"name": name})
	respond(w, r, result, err)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	result, err := registry.MustInvoke(r.Context(), s.ops, "list_semantic_views", nil)
	respond(w, r, result, err)
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	result, err := registry.MustInvoke(r.Context(), s.ops, "describe_semantic_view", map[string]any{"name": name})
	respond(w, r, result, err)
}

type queryRequestBody struct {
	Dimensions []string `json:"dimensions"`
	Metrics    []string `json:"metrics"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var body queryRequestBody
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body) // empty body => no dimensions/metrics
	}
	result, err := registry.MustInvoke(r.Context(), s.ops, "semantic_query", map[string]any{
		"name": name, "dimensions": body.Dimensions, "metrics": body.Metrics,
	})
	respond(w, r, result, err)
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var body queryRequestBody
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	result, err := registry.MustInvoke(r.Context(), s.ops, "explain_semantic_view", map[string]any{
		"name": name, "dimensions": body.Dimensions, "metrics": body.Metrics,
	})
	respond(w, r, result, err)
}

func respond(w http.ResponseWriter, r *http.Request, result any, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]any{"result": result})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var semErr errs.SemanticError
	if errors.As(err, &semErr) {
		switch semErr.Category() {
		case errs.CategoryInput:
			status = http.StatusBadRequest
		case errs.CategoryNotFound:
			status = http.StatusNotFound
		case errs.CategoryExec:
			status = http.StatusUnprocessableEntity
		}
	}
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}
