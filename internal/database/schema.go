package database

const deliverySchema = `
-- One row per chapter notification delivered to the webhook
CREATE TABLE delivery (
	novel_id TEXT NOT NULL,
	chapter_number REAL NOT NULL,
	message_id TEXT NOT NULL,
	sent_at TIMESTAMP NOT NULL,
	PRIMARY KEY (novel_id, chapter_number)
);

CREATE INDEX idx_delivery_sent_at ON delivery(sent_at);
`

// deliveryMigrations contains incremental schema changes
// Each migration is applied in order based on the current user_version
// deliveryMigrations[0] is empty because version 0 uses the base schema
var deliveryMigrations = []string{
	"",
}
