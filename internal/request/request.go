// Package request builds and dispatches one API step's HTTP call: variable
// substitution on headers and body, bearer token injection, dispatch through
// resty, and response classification.
package request

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/loykin/apicheck/internal/assertion"
	"github.com/loykin/apicheck/internal/common"
	"github.com/loykin/apicheck/internal/constants"
	"github.com/loykin/apicheck/internal/env"
)

// Spec describes the API request of a step, matching the apiRequest block of
// the configuration document.
type Spec struct {
	Method            string            `yaml:"method" mapstructure:"method"`
	Endpoint          string            `yaml:"endpoint" mapstructure:"endpoint"`
	Headers           map[string]string `yaml:"headers" mapstructure:"headers"`
	Body              interface{}       `yaml:"body" mapstructure:"body"`
	UseAuthentication bool              `yaml:"useAuthentication" mapstructure:"useAuthentication"`
	Assertions        []assertion.Spec  `yaml:"assertions" mapstructure:"assertions"`
}

// Response is the classified outcome of a dispatched request. Parsed is true
// only when the declared content type indicates JSON and the body is
// non-empty, syntactically valid JSON; parse failure degrades to an
// unparsed response instead of failing the step.
type Response struct {
	StatusCode int
	Body       []byte
	Parsed     bool
}

// IsSuccess reports whether the status is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Execute substitutes variables into the request, dispatches it against the
// configured base URL and classifies the response. Transport faults are
// returned as errors for the step runner to record; they never panic.
func (s *Spec) Execute(ctx context.Context, client *resty.Client, baseURL string, store *env.Store) (*Response, error) {
	logger := common.GetLogger().WithComponent("request")

	method := strings.ToUpper(strings.TrimSpace(s.Method))
	if method == "" {
		method = http.MethodGet
	}
	url := resolveURL(baseURL, store.Substitute(s.Endpoint))

	headers, contentType := splitContentType(store.SubstituteMap(s.Headers))

	req := client.R().SetContext(ctx).SetHeaders(headers)
	if s.UseAuthentication {
		if token, ok := store.Lookup(constants.VarBearerToken); ok {
			tokenType, _ := store.Lookup(constants.VarAuthTokenType)
			if strings.TrimSpace(tokenType) == "" {
				tokenType = constants.DefaultTokenType
			}
			req.SetHeader("Authorization", tokenType+" "+token)
		} else {
			logger.Warn("step requested authentication but no bearer token is stored", "url", url)
		}
	}

	// Only body-carrying methods get serialized content. The content type is
	// derived from body presence; an explicit header value is honored here
	// rather than taken from the header map directly.
	if s.Body != nil && methodCarriesBody(method) {
		payload, err := json.Marshal(store.SubstituteValue(s.Body))
		if err != nil {
			return nil, fmt.Errorf("serialize request body: %w", err)
		}
		if contentType == "" {
			contentType = constants.ContentTypeJSON
		}
		req.SetHeader("Content-Type", contentType)
		req.SetBody(payload)
	} else if contentType != "" {
		req.SetHeader("Content-Type", contentType)
	}

	logger.Debug("dispatching request", "method", method, "url", url)
	resp, err := dispatch(req, method, url)
	if err != nil {
		return nil, err
	}

	out := &Response{StatusCode: resp.StatusCode(), Body: resp.Body()}
	out.Parsed = isJSONContentType(resp.Header().Get("Content-Type")) &&
		len(out.Body) > 0 && json.Valid(out.Body)
	logger.Debug("received response", "status_code", out.StatusCode, "parsed", out.Parsed, "size", len(out.Body))
	return out, nil
}

func resolveURL(baseURL, endpoint string) string {
	e := strings.TrimSpace(endpoint)
	if strings.HasPrefix(e, "http://") || strings.HasPrefix(e, "https://") {
		return e
	}
	return strings.TrimRight(strings.TrimSpace(baseURL), "/") + "/" + strings.TrimLeft(e, "/")
}

// splitContentType removes any content-type entry from the header map,
// returning the remaining headers and the explicit value if one was set.
func splitContentType(headers map[string]string) (map[string]string, string) {
	out := make(map[string]string, len(headers))
	contentType := ""
	for k, v := range headers {
		if strings.EqualFold(k, "Content-Type") {
			contentType = v
			continue
		}
		out[k] = v
	}
	return out, contentType
}

func methodCarriesBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

func isJSONContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "application/json") || strings.Contains(ct, "+json")
}

func dispatch(req *resty.Request, method, url string) (*resty.Response, error) {
	switch method {
	case http.MethodGet:
		return req.Get(url)
	case http.MethodPost:
		return req.Post(url)
	case http.MethodPut:
		return req.Put(url)
	case http.MethodPatch:
		return req.Patch(url)
	case http.MethodDelete:
		return req.Delete(url)
	case http.MethodHead:
		return req.Head(url)
	default:
		return nil, fmt.Errorf("request: unsupported method: %s", method)
	}
}
