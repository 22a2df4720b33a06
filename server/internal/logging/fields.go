// Package logging provides structured logging for everest-server.
package logging

// Field names shared by all log lines.
const (
	FieldRequestID  = "request_id"
	FieldUser       = "user"
	FieldNamespace  = "namespace"
	FieldResource   = "resource"
	FieldName       = "name"
	FieldAction     = "action"
	FieldDuration   = "duration_ms"
	FieldStatusCode = "status_code"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldRemoteAddr = "remote_addr"
	FieldUserAgent  = "user_agent"
	FieldComponent  = "component"
	FieldOperation  = "operation"
)
