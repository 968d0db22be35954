package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldDurationHuman = "duration_human"
	FieldUserAgent     = "user_agent"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldUserID        = "user_id"
	FieldEmail         = "email"
	FieldTransactionID = "transaction_id"
	FieldKind          = "kind"
	FieldLabel         = "label"
	FieldAmountCents   = "amount_cents"
	FieldFilename      = "filename"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentAuth      = "auth"
	ComponentStorage   = "storage"
	ComponentDashboard = "dashboard"
	ComponentReport    = "report"
	ComponentUpload    = "upload"
	ComponentCache     = "cache"
)
