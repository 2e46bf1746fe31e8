// Package ir holds the intermediate representation consumed by the generator
// and the loaders that read it from JSON, YAML or TOML.
//
// The IR is loaded once and never mutated. Upstream tooling is responsible for
// validating it; the loader only rejects variants it cannot represent.
package ir

// IntermediateRepresentation is the whole API definition.
type IntermediateRepresentation struct {
	APIName   string             `json:"apiName"`
	Types     []TypeDeclaration  `json:"types"`
	Errors    []ErrorDeclaration `json:"errors"`
	Services  Services           `json:"services"`
	Constants Constants          `json:"constants"`
}

type Services struct {
	HTTP      []HTTPService      `json:"http"`
	WebSocket []WebSocketChannel `json:"websocket"`
}

// Constants are the wire-level names shared by every generated service.
type Constants struct {
	ErrorDiscriminant  string `json:"errorDiscriminant"`
	ErrorInstanceIDKey string `json:"errorInstanceIdKey"`
}

type TypeDeclaration struct {
	Name  DeclaredName
	Shape Shape
	Docs  string
}

// ErrorDeclaration is a declared error; its Shape is the body the server sends.
type ErrorDeclaration struct {
	Name           DeclaredName
	Shape          Shape
	HTTPStatusCode int
	Docs           string
}

type HTTPService struct {
	Name      DeclaredName   `json:"name"`
	BasePath  string         `json:"basePath"`
	Endpoints []HTTPEndpoint `json:"endpoints"`
	Docs      string         `json:"docs,omitempty"`
}

type HTTPMethod string

const (
	GET    HTTPMethod = "GET"
	POST   HTTPMethod = "POST"
	PUT    HTTPMethod = "PUT"
	PATCH  HTTPMethod = "PATCH"
	DELETE HTTPMethod = "DELETE"
)

type HTTPEndpoint struct {
	ID              string         `json:"endpointId"`
	Method          HTTPMethod     `json:"method"`
	Path            string         `json:"path"`
	PathParameters  []Parameter    `json:"pathParameters"`
	QueryParameters []Parameter    `json:"queryParameters"`
	Request         *RequestBody   `json:"request"`
	Response        *ResponseBody  `json:"response"`
	Errors          FailedResponse `json:"errors"`
	Docs            string         `json:"docs,omitempty"`
}

// Parameter is a path or query parameter.
type Parameter struct {
	Key       string
	ValueType TypeReference
	Docs      string
}

type RequestBody struct {
	Type TypeReference
	Docs string
}

type ResponseBody struct {
	Type TypeReference
	Docs string
}

// FailedResponse describes the error union an endpoint or operation can return.
type FailedResponse struct {
	Discriminant    string          `json:"discriminant"`
	ErrorProperties ErrorProperties `json:"errorProperties"`
	Errors          []ResponseError `json:"errors"`
	Docs            string          `json:"docs,omitempty"`
}

type ErrorProperties struct {
	ErrorInstanceID string `json:"errorInstanceId"`
}

type ResponseError struct {
	DiscriminantValue string       `json:"discriminantValue"`
	Error             DeclaredName `json:"error"`
	Docs              string       `json:"docs,omitempty"`
}

type WebSocketChannel struct {
	Name       DeclaredName         `json:"name"`
	Path       string               `json:"path"`
	Operations []WebSocketOperation `json:"operations"`
	Docs       string               `json:"docs,omitempty"`
}

type WebSocketOperation struct {
	ID       string         `json:"operationId"`
	Request  *RequestBody   `json:"request"`
	Response *ResponseBody  `json:"response"`
	Errors   FailedResponse `json:"errors"`
	Docs     string         `json:"docs,omitempty"`
}
