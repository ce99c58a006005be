package types

// Status is the lifecycle state of a persisted row
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

// TableName represents a database table name
type TableName string

const (
	// TableNameRawUsage lives in ClickHouse
	TableNameRawUsage         TableName = "raw_usage"
	TableNameInvoiceTrackings TableName = "invoice_trackings"
	TableNameSettings         TableName = "settings"
)
