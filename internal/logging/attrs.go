package logging

// Attribute keys shared by every component that reports through the sink.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldSource     = "source"
	FieldStatus     = "status"
	FieldStatusName = "status_name"
	FieldLength     = "length"
	FieldError      = "error"
)
