package domain

import (
	"encoding/json"
	"strings"
)

// ProxyRequest is the logical request a caller asks the gateway to forward.
// Data is an opaque JSON payload; the gateway never models backend schemas.
type ProxyRequest struct {
	TargetService string
	Endpoint      string
	Method        string
	Data          json.RawMessage
	Headers       map[string]string
}

// ProxyResult carries a backend's response verbatim.
// Gateway faults are reported as errors, never as a ProxyResult.
type ProxyResult struct {
	Service    string
	StatusCode int
	Headers    map[string]string
	Body       json.RawMessage
}

// Operation renders the method/endpoint pair used to label error records.
func (r ProxyRequest) Operation() string {
	return strings.ToUpper(r.Method) + " /" + strings.TrimPrefix(r.Endpoint, "/")
}
