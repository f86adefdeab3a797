// Package history stores completed sends in a SQLite database.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/studiowebux/perseus/internal/config"
	"github.com/studiowebux/perseus/internal/migrations"
	"github.com/studiowebux/perseus/internal/types"
)

const timestampLayout = "2006-01-02 15:04:05.000"

// DefaultLimit bounds Recent when no limit is given
const DefaultLimit = 50

// Manager reads and writes history for one project
type Manager struct {
	db      *sql.DB
	project string
}

// NewManager opens (and migrates) the database at dbPath. Entries are
// scoped to project, usually config.ProjectKey of the project root.
func NewManager(dbPath, project string) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}
	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db, project: project}, nil
}

// NewEntry builds an entry from a sent request and its outcome. resp is nil
// when the send failed.
func NewEntry(req *types.Request, resp *types.Response, sendErr error) types.HistoryEntry {
	e := types.HistoryEntry{
		Timestamp:   time.Now(),
		RequestID:   req.ID,
		RequestName: req.Name,
		Method:      req.Method,
		URL:         req.URL,
		Headers:     req.Headers,
		Body:        req.Body,
	}
	if resp != nil {
		e.ResponseStatus = resp.Status
		e.ResponseStatusText = resp.StatusText
		e.ResponseHeaders = resp.Headers
		e.ResponseBody = resp.Body
		e.Duration = resp.Duration
		e.RequestSize = resp.RequestSize
		e.ResponseSize = resp.ResponseSize
	}
	if sendErr != nil {
		e.Error = sendErr.Error()
	}
	return e
}

// Save inserts an entry and returns its id
func (m *Manager) Save(e types.HistoryEntry) (int64, error) {
	responseHeadersJSON, err := json.Marshal(e.ResponseHeaders)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal response headers: %w", err)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	res, err := m.db.Exec(`
		INSERT INTO history (
			timestamp, request_id, request_name, method, url, headers, body,
			response_status, response_status_text, response_headers, response_body,
			duration_ms, request_size, response_size, error, project
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Timestamp.UTC().Format(timestampLayout),
		e.RequestID,
		e.RequestName,
		string(e.Method),
		e.URL,
		e.Headers,
		e.Body,
		e.ResponseStatus,
		e.ResponseStatusText,
		string(responseHeadersJSON),
		e.ResponseBody,
		e.Duration.Milliseconds(),
		e.RequestSize,
		e.ResponseSize,
		e.Error,
		m.project,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save history entry: %w", err)
	}
	return res.LastInsertId()
}

const selectColumns = `
	SELECT id, timestamp, request_id, request_name, method, url, headers, body,
	       response_status, response_status_text, response_headers, response_body,
	       duration_ms, request_size, response_size, error
	FROM history`

// Recent returns the newest entries first. limit <= 0 uses DefaultLimit.
func (m *Manager) Recent(limit int) ([]types.HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := m.db.Query(selectColumns+`
		WHERE project = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, m.project, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ForRequest returns the entries of one saved request, newest first
func (m *Manager) ForRequest(requestID string) ([]types.HistoryEntry, error) {
	rows, err := m.db.Query(selectColumns+`
		WHERE project = ? AND request_id = ?
		ORDER BY timestamp DESC, id DESC`, m.project, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for request: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]types.HistoryEntry, error) {
	var entries []types.HistoryEntry

	for rows.Next() {
		var (
			e                   types.HistoryEntry
			timestamp           string
			requestID           sql.NullString
			requestName         sql.NullString
			method              string
			body                sql.NullString
			responseHeadersJSON string
			durationMs          int64
			requestSize         sql.NullInt64
			responseSize        sql.NullInt64
			errorMsg            sql.NullString
		)
		err := rows.Scan(
			&e.ID,
			&timestamp,
			&requestID,
			&requestName,
			&method,
			&e.URL,
			&e.Headers,
			&body,
			&e.ResponseStatus,
			&e.ResponseStatusText,
			&responseHeadersJSON,
			&e.ResponseBody,
			&durationMs,
			&requestSize,
			&responseSize,
			&errorMsg,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		if err := json.Unmarshal([]byte(responseHeadersJSON), &e.ResponseHeaders); err != nil {
			e.ResponseHeaders = nil
		}
		if t, err := time.ParseInLocation(timestampLayout, timestamp, time.UTC); err == nil {
			e.Timestamp = t.Local()
		} else if t, err := time.Parse(time.RFC3339, timestamp); err == nil {
			e.Timestamp = t
		}

		e.RequestID = requestID.String
		e.RequestName = requestName.String
		e.Method = types.Method(method)
		e.Body = body.String
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.RequestSize = int(requestSize.Int64)
		e.ResponseSize = int(responseSize.Int64)
		e.Error = errorMsg.String
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Clear deletes every entry of the project
func (m *Manager) Clear() error {
	if _, err := m.db.Exec("DELETE FROM history WHERE project = ?", m.project); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Delete removes one entry
func (m *Manager) Delete(id int64) error {
	if _, err := m.db.Exec("DELETE FROM history WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}

// GetCount returns the number of entries of the project
func (m *Manager) GetCount() (int, error) {
	var count int
	if err := m.db.QueryRow("SELECT COUNT(*) FROM history WHERE project = ?", m.project).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get history count: %w", err)
	}
	return count, nil
}

// Close closes the database
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
