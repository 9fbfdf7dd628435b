package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/utils"
)

// securityHeaders sets the usual hardening headers on every response.
func (h *Handler) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("X-Content-Type-Options", "nosniff")
		header.Set("X-Frame-Options", "DENY")
		header.Set("X-DNS-Prefetch-Control", "off")
		header.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		header.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		header.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		header.Set("Cross-Origin-Opener-Policy", "same-origin")
		if r.TLS != nil || h.cfg.App.IsProduction() {
			header.Set("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

// limitBody caps request bodies at the configured size. Reading past the cap
// fails with *http.MaxBytesError, which the normalizer turns into 413.
func (h *Handler) limitBody(next http.Handler) http.Handler {
	limit := h.cfg.Security.BodyLimit
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limit > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}
		next.ServeHTTP(w, r)
	})
}

// secretKeys are body keys whose values are never rewritten by stripHTML.
var secretKeys = map[string]struct{}{
	"password":        {},
	"passwordConfirm": {},
	"passwordCurrent": {},
}

// stripHTML removes markup from every string of a JSON request body before
// it reaches a handler. Bodies that are not valid JSON are passed on
// unchanged so that decoding reports them.
func (h *Handler) stripHTML(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil || r.Body == http.NoBody {
			next.ServeHTTP(w, r)
			return
		}

		raw, err := io.ReadAll(r.Body)
		r.Body.Close()
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(sanitizeBody(r, raw)))
		next.ServeHTTP(w, r)
	})
}

func sanitizeBody(r *http.Request, raw []byte) []byte {
	if len(bytes.TrimSpace(raw)) == 0 {
		return raw
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return raw
	}

	if obj, ok := body.(map[string]any); ok {
		for key, value := range obj {
			if _, secret := secretKeys[key]; secret {
				continue
			}
			obj[key] = utils.StripHTMLValue(value)
		}
	} else {
		body = utils.StripHTMLValue(body)
	}

	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		logger.FromRequest(r).Err(err).Msg("failed to re-encode sanitized body")
		return raw
	}
	return bytes.TrimRight(out.Bytes(), "\n")
}
