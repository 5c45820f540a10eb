package logging

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService    = "service"
	FieldOperation  = "operation"
	FieldCommand    = "command"
	FieldPlayerID   = "player_id"
	FieldRequestID  = "request_id"
	FieldUser       = "user"
	FieldAuthMethod = "auth_method"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldErrorType  = "error_type"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
)
