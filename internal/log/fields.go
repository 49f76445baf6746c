package log

// Field names shared by the request-logging middleware and error responder.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
)

// Component names used by the binaries.
const (
	ComponentApp    = "app"
	ComponentMail   = "mail"
	ComponentSheets = "sheets"
)
