package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"cardapio-backend/internal/errs"
)

// FromHTTP builds the canonical request from a net/http request. prefix is
// removed from the URL path when present.
func FromHTTP(r *http.Request, prefix string, limit int64) (*Request, error) {
	req := &Request{
		Method:  r.Method,
		Path:    StripPrefix(r.URL.Path, prefix),
		Query:   r.URL.Query(),
		Headers: r.Header.Clone(),
	}

	if r.Body == nil || r.Method == http.MethodGet || r.Method == http.MethodOptions {
		return req, nil
	}

	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, limit))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errs.NewValidationError("request body too large", nil)
		}
		return nil, errs.NewValidationError("could not read request body", nil)
	}
	req.Body = body
	return req, nil
}

// StripPrefix removes prefix from path and guarantees a leading slash.
func StripPrefix(path, prefix string) string {
	prefix = strings.TrimRight(prefix, "/")
	if prefix != "" && (path == prefix || strings.HasPrefix(path, prefix+"/")) {
		path = strings.TrimPrefix(path, prefix)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// Write serializes resp onto w.
func Write(w http.ResponseWriter, resp *Response) {
	for k, vs := range resp.Headers {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	if resp.Body == nil {
		w.WriteHeader(resp.StatusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(resp.StatusCode)
	_ = json.NewEncoder(w).Encode(resp.Body)
}

// ErrorBody is the JSON body rendered for a failed request.
func ErrorBody(e *errs.HTTPError) H {
	body := H{
		"success": false,
		"error":   e.Message,
		"code":    e.Code,
	}
	if e.Path != "" {
		body["path"] = e.Path
	}
	if len(e.Errors) > 0 {
		body["errors"] = e.Errors
	}
	return body
}
