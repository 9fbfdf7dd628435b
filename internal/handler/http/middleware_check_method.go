// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-natours/internal/apperr"
	"github.com/MKhiriev/go-natours/internal/logger"
)

// notFound answers every request that matches no route.
func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, apperr.Newf(http.StatusNotFound, "Can't find %s on this server!", r.URL.Path))
}

// checkHTTPMethod is registered as the router's MethodNotAllowed handler.
//
// Chi answers 405 when a path matches but the method is not registered for
// it. The API hides such routes instead: the request ends in the same 404 as
// an unknown path. The methods the matched route does serve are logged.
func (h *Handler) checkHTTPMethod(router chi.Routes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.NewRouteContext()
		var allowed []string
		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete} {
			if method != r.Method && router.Match(rctx, method, r.URL.Path) {
				allowed = append(allowed, method)
			}
			rctx.Reset()
		}

		logger.FromRequest(r).Debug().
			Str("method", r.Method).
			Strs("allowed", allowed).
			Msg("method not served by route")

		h.notFound(w, r)
	}
}
