package journal

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS pending_marks (
	notification_id TEXT NOT NULL,
	queue           TEXT NOT NULL,
	queued_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (notification_id, queue)
);

CREATE INDEX IF NOT EXISTS idx_pending_marks_queue ON pending_marks(queue);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
