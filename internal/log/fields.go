package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldSuccess     = "success"
	FieldDuration    = "duration_ms"
	FieldSource      = "source"
	FieldRowsRead    = "rows_read"
	FieldImported    = "imported"
	FieldSkipped     = "skipped"
	FieldSignal      = "signal"
	FieldPeriods     = "periods"
	FieldMonths      = "months"
	FieldRecordID    = "record_id"
	FieldCategory    = "category"
	FieldAmount      = "amount"
	FieldStoreVer    = "store_version"
	FieldExchange    = "exchange"
	FieldQueue       = "queue"
	FieldMessageID   = "message_id"
	FieldMessageKind = "message_kind"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentIngest   = "ingest"
	ComponentStorage  = "storage"
	ComponentReport   = "report"
	ComponentForecast = "forecast"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentCache    = "cache"
	ComponentCLI      = "cli"
)

// Operations defines standard operation names
const (
	OpImport    = "import"
	OpAppend    = "append"
	OpSnapshot  = "snapshot"
	OpAggregate = "aggregate"
	OpForecast  = "forecast"
	OpPublish   = "publish"
	OpValidate  = "validate"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
