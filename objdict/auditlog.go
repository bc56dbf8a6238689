package objdict

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/url"

	_ "github.com/go-sql-driver/mysql"
)

// AuditLog appends one row per applied WriteRequest to a SQL table, for
// after-the-fact review of which remote-access clients changed what. The
// connection string is built with explicit UTF-8, UTC, and parsed-date/time
// parameters rather than left at the driver's defaults.
type AuditLog struct {
	db      *sql.DB
	lastErr error
}

// OpenAuditLog opens (and pings) a connection to dataSourceName, in the
// "[username[:password]@][protocol[(address)]]/dbname" form required by
// go-sql-driver, and ensures the audit table exists.
func OpenAuditLog(dataSourceName string) (*AuditLog, error) {
	params := url.Values{}
	params.Set("collation", "utf8mb4_general_ci")
	params.Set("parseTime", "true")
	params.Set("loc", "UTC")
	db, err := sql.Open("mysql", dataSourceName+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("objdict: opening audit log connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("objdict: connecting to audit log database: %w", err)
	}
	const createTable = `CREATE TABLE IF NOT EXISTS objdict_write_audit (
		id INT AUTO_INCREMENT PRIMARY KEY,
		obj_index INT NOT NULL,
		subindex INT NOT NULL,
		data_hex TEXT NOT NULL,
		recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	) CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("objdict: creating audit table: %w", err)
	}
	return &AuditLog{db: db}, nil
}

// Record appends one audit row for an applied write. Failures are not
// returned to the caller: the write itself already succeeded against the
// in-memory dictionary by the time Record is called, and the audit trail
// is a secondary concern the caller can monitor via Err instead of
// failing the write path on.
func (a *AuditLog) Record(r WriteRequest) {
	_, err := a.db.Exec(
		"INSERT INTO objdict_write_audit (obj_index, subindex, data_hex) VALUES (?, ?, ?)",
		r.Index, r.Subindex, hex.EncodeToString(r.Data),
	)
	if err != nil {
		a.lastErr = err
	}
}

// Err returns the error from the most recent failed Record call, or nil.
func (a *AuditLog) Err() error { return a.lastErr }

// Close closes the underlying database connection.
func (a *AuditLog) Close() error { return a.db.Close() }
