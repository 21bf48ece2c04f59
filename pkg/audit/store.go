package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
)

// Ensure Store implements store.LogsStore
var _ store.LogsStore = (*Store)(nil)

// Store handles audit message persistence to database
type Store struct {
	db *sql.DB
}

// NewStore opens the audit database. It returns nil without error when
// url is empty (persistence disabled).
func NewStore(url string) (*Store, error) {
	if url == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewStoreWithDB creates a store with an existing database connection
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save persists an audit event to the messages table
func (s *Store) Save(event Event) error {
	return s.SaveContext(context.Background(), event)
}

// SaveContext is Save bounded by ctx
func (s *Store) SaveContext(ctx context.Context, event Event) error {
	if s.db == nil {
		return nil
	}

	hostname, _ := os.Hostname()
	sdataJSON, err := json.Marshal(event.StructuredData())
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO messages (facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		event.Facility(),
		int(event.Severity()),
		time.Now().UTC(),
		hostname,
		AppName,
		strconv.Itoa(os.Getpid()),
		event.MessageID(),
		sdataJSON,
		event.Message(),
	)
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// logWhere builds the WHERE clause of a log query and its arguments
func logWhere(f store.LogFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		args = append(args, "%"+likeEscaper.Replace(kw)+"%")
		conds = append(conds, fmt.Sprintf(`message ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if user := strings.TrimSpace(f.User); user != "" {
		args = append(args, user)
		conds = append(conds, fmt.Sprintf(`LOWER(sdata->'%s'->>'user') = LOWER($%d)`, SDIDAuth, len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListLogs returns one page of persisted records, newest first
func (s *Store) ListLogs(ctx context.Context, f store.LogFilter) ([]store.LogEntry, int64, error) {
	entries := []store.LogEntry{}
	if s.db == nil {
		return entries, 0, nil
	}

	where, args := logWhere(f)

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return entries, 0, nil
	}

	query := `SELECT id, timestamp, severity, msgid, sdata, message FROM messages` + where +
		` ORDER BY timestamp DESC, id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			e     store.LogEntry
			msgid sql.NullString
			sdata []byte
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Severity, &msgid, &sdata, &e.Message); err != nil {
			return nil, 0, err
		}
		e.MessageID = msgid.String

		var sd map[string]map[string]string
		if len(sdata) > 0 {
			if err := json.Unmarshal(sdata, &sd); err != nil {
				return nil, 0, fmt.Errorf("message %d: decoding sdata: %w", e.ID, err)
			}
		}
		e.User = sd[SDIDAuth]["user"]
		e.ClientIP = sd[SDIDClient]["ip"]
		e.Operation = sd[SDIDAction]["operation"]
		e.Result = sd[SDIDAction]["result"]
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
