// internal/apidocs/apidocs.go
//
// OpenAPI document publisher.
//
// Context
// -------
// In development the service publishes an OpenAPI 3 document describing
// itself.  The document metadata comes from the Documentation domain; the
// server URL is APP_URL with APP_PORT applied.  Build returns the document
// model (kin-openapi) and Handler serves it as JSON.
//
// Notes
// -----
//   - Operations are registered by the HTTP layer through Spec.Operations
//     so this package stays free of routing knowledge.
package apidocs

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
)

// Operation is one documented endpoint.
type Operation struct {
	Method      string
	Path        string
	Summary     string
	Status      int
	Description string
}

// Spec is the publisher input.  Every value is plain configuration.
type Spec struct {
	Title       string
	Description string
	Version     string
	ServerURL   string
	ServerName  string
	Tag         string
	Path        string
	Operations  []Operation
}

// ServerURL applies port to base, mirroring how the service is reached in
// development.
func ServerURL(base string, port int) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("apidocs: server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("apidocs: server url %q is not absolute", base)
	}
	u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(port))
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

// Build assembles the OpenAPI document for s.
func Build(s Spec) (*openapi3.T, error) {
	if s.Title == "" || s.Version == "" {
		return nil, fmt.Errorf("apidocs: title and version are required")
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       s.Title,
			Description: s.Description,
			Version:     s.Version,
		},
		Paths: openapi3.NewPaths(),
	}
	if s.ServerURL != "" {
		doc.Servers = openapi3.Servers{{URL: s.ServerURL, Description: s.ServerName}}
	}
	if s.Tag != "" {
		doc.Tags = openapi3.Tags{{Name: s.Tag}}
	}

	for _, o := range s.Operations {
		op := openapi3.NewOperation()
		op.Summary = o.Summary
		if s.Tag != "" {
			op.Tags = []string{s.Tag}
		}
		op.AddResponse(o.Status, openapi3.NewResponse().WithDescription(o.Description))
		doc.AddOperation(o.Path, o.Method, op)
	}
	return doc, nil
}

// Handler serves doc as JSON.
func Handler(doc *openapi3.T) (http.Handler, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("apidocs: marshal: %w", err)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}), nil
}
