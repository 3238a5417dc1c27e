// Package api holds the canonical request and response exchanged between
// hosting adapters, the router and the resource handlers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"cardapio-backend/internal/errs"
	"cardapio-backend/internal/validation"

	"go.mongodb.org/mongo-driver/bson"
)

// Request is the platform neutral view of an inbound call. Path is
// already stripped of any hosting prefix.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers http.Header
	Body    json.RawMessage
}

// Response is what handlers return. Body is serialized as JSON unless nil.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       any
}

// HandlerFunc serves one resource.
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

// H is a shorthand for JSON object bodies.
type H map[string]any

func JSON(status int, body any) *Response {
	return &Response{StatusCode: status, Headers: http.Header{}, Body: body}
}

func OK(body any) *Response {
	return JSON(http.StatusOK, body)
}

func Empty(status int) *Response {
	return &Response{StatusCode: status, Headers: http.Header{}}
}

func (r *Request) HasBody() bool {
	return len(bytes.TrimSpace(r.Body)) > 0 && !bytes.Equal(bytes.TrimSpace(r.Body), []byte("null"))
}

// Bind decodes the JSON body into v and validates struct tags.
func (r *Request) Bind(v any) error {
	if !r.HasBody() {
		return errs.NewValidationError("request body is required", nil)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errs.NewValidationError("invalid JSON body: "+err.Error(), nil)
	}
	return validation.Struct(v)
}

// Documents decodes an array body into documents. When allowSingle is set a
// lone object is accepted as a one element batch.
func (r *Request) Documents(allowSingle bool) ([]bson.M, error) {
	if !r.HasBody() {
		return nil, errs.NewValidationError("request body must be an array", nil)
	}
	body := bytes.TrimSpace(r.Body)

	if body[0] == '{' && allowSingle {
		var doc bson.M
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, errs.NewValidationError("invalid JSON body: "+err.Error(), nil)
		}
		return []bson.M{doc}, nil
	}
	if body[0] != '[' {
		return nil, errs.NewValidationError("request body must be an array", nil)
	}

	var docs []bson.M
	if err := json.Unmarshal(body, &docs); err != nil {
		return nil, errs.NewValidationError("invalid JSON body: "+err.Error(), nil)
	}
	if docs == nil {
		docs = []bson.M{}
	}
	return docs, nil
}

// Segments splits the path into its non-empty parts.
func (r *Request) Segments() []string {
	return SplitPath(r.Path)
}

func SplitPath(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
