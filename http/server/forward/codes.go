// Package forward adapts use cases to fiber handlers.
//
// A forwarded request is decoded from path params, query string and body (JSON or
// multipart) into the use case input, validated with val and executed. The result
// is written as JSON. Request and response bodies are logged with masked fields.
package forward

const (
	codeInvalidContentType = "INVALID_CONTENT_TYPE"
	codeInvalidJSONBody    = "INVALID_JSON_BODY"
	codeInvalidFormBody    = "INVALID_FORM_BODY"
	codeInvalidQueryParams = "INVALID_QUERY_PARAMS"
	codeInvalidPathParams  = "INVALID_PATH_PARAMS"
	codeInvalidHTTPMethod  = "INVALID_HTTP_METHOD"
)
