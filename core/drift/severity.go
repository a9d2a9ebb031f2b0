package drift

// Severity levels for schema changes:
// BLOCK for changes that lose data or reject writes,
// WARN for risky but reversible changes,
// INFO for safe changes.
const (
	SeverityInfo  = "INFO"
	SeverityWarn  = "WARN"
	SeverityBlock = "BLOCK"
)

// Change kinds reported by Diff.
const (
	ChangeColumnAdded       = "column_added"
	ChangeColumnRemoved     = "column_removed"
	ChangeColumnRenamed     = "column_renamed"
	ChangeTypeChanged       = "type_changed"
	ChangeNullableToNotNull = "nullable_to_notnull"
	ChangeNotNullToNullable = "notnull_to_nullable"
	ChangeDefaultChanged    = "default_changed"
)

// SeverityForChange maps a change kind to its severity.
func SeverityForChange(kind string) string {
	switch kind {
	case ChangeColumnRemoved, ChangeNullableToNotNull:
		return SeverityBlock
	case ChangeTypeChanged, ChangeColumnRenamed:
		return SeverityWarn
	default:
		return SeverityInfo
	}
}

// MessageForChange returns a short operator-facing description.
func MessageForChange(kind, from, to string) string {
	switch kind {
	case ChangeColumnAdded:
		return "added"
	case ChangeColumnRemoved:
		return "removed"
	case ChangeColumnRenamed:
		return "renamed from " + from
	case ChangeTypeChanged:
		return "type " + from + " -> " + to
	case ChangeNullableToNotNull:
		return "nullable -> NOT NULL"
	case ChangeNotNullToNullable:
		return "NOT NULL -> nullable"
	case ChangeDefaultChanged:
		return "default " + from + " -> " + to
	default:
		return ""
	}
}
