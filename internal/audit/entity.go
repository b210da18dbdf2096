// AngelaMos | 2026
// entity.go

package audit

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Details is the free-form payload of an entry. Its shape depends on the
// action code, so it is stored as an open JSON object.
type Details map[string]any

func (d Details) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal audit details: %w", err)
	}
	return string(b), nil
}

func (d *Details) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*d = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan audit details: unsupported type %T", src)
	}

	if len(raw) == 0 {
		*d = nil
		return nil
	}

	return json.Unmarshal(raw, d)
}

// Entry is one row of activity_logs. Rows are only ever inserted.
type Entry struct {
	ID         int64     `db:"id"`
	UserID     *string   `db:"user_id"`
	UserEmail  *string   `db:"user_email"`
	Action     string    `db:"action"`
	EntityType *string   `db:"entity_type"`
	EntityID   *string   `db:"entity_id"`
	Details    Details   `db:"details"`
	IPAddress  *string   `db:"ip_address"`
	UserAgent  *string   `db:"user_agent"`
	CreatedAt  time.Time `db:"created_at"`
}

// Event is what callers hand to the Recorder. Empty strings are stored as
// NULL; an empty ActorID means anonymous or system.
type Event struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Details    Details
	IPAddress  string
	UserAgent  string
}
