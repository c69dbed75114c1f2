package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/social-media-monitor/internal/database"
	"github.com/social-media-monitor/internal/models"
)

// tableName is the moderation table
const tableName = "social_media_monitor"

// moderationRepo is the concrete PostgreSQL implementation of
// ModerationRepository
type moderationRepo struct {
	db *database.DB
}

// GetEscalations retrieves rows for the given comment ids where at least one
// moderation flag is set
func (r moderationRepo) GetEscalations(ctx context.Context, commentIDs []string) ([]*models.ModerationRecord, error) {
	if len(commentIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT comment_id, page_id, adverse, pqc, mi
		FROM ` + tableName + `
		WHERE comment_id = ANY($1)
		AND (adverse = TRUE OR pqc = TRUE OR mi = TRUE)
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(commentIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query escalations: %w", err)
	}
	defer rows.Close()

	var records []*models.ModerationRecord
	for rows.Next() {
		var rec models.ModerationRecord
		if err := rows.Scan(&rec.CommentID, &rec.PageID, &rec.Adverse, &rec.PQC, &rec.MI); err != nil {
			return nil, fmt.Errorf("failed to scan escalation row: %w", err)
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// GetMetadata retrieves rows for the given comment ids where metadata is set
func (r moderationRepo) GetMetadata(ctx context.Context, commentIDs []string) ([]*models.ModerationRecord, error) {
	if len(commentIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT comment_id, page_id, metadata
		FROM ` + tableName + `
		WHERE comment_id = ANY($1)
		AND metadata IS NOT NULL
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(commentIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	var records []*models.ModerationRecord
	for rows.Next() {
		var rec models.ModerationRecord
		var metadata []byte
		if err := rows.Scan(&rec.CommentID, &rec.PageID, &metadata); err != nil {
			return nil, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		if err := unmarshalMetadata(metadata, &rec); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// FindComment retrieves the moderation row for one comment, or nil when no
// row exists
func (r moderationRepo) FindComment(ctx context.Context, pageID, commentID string) (*models.ModerationRecord, error) {
	query := `
		SELECT id, uuid, page_id, comment_id, thread_id, channel, message_type,
		       adverse, pqc, mi, handled, spam, archived, metadata
		FROM ` + tableName + `
		WHERE page_id = $1 AND comment_id = $2
	`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, pageID, commentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed during find comment: %w", err)
	}
	return rec, nil
}

// Upsert inserts or updates the row keyed by (page_id, comment_id), relying
// on the table's native conflict handling so concurrent callers cannot race
// a duplicate insert. The returned bool reports whether a new row was
// inserted.
func (r moderationRepo) Upsert(ctx context.Context, update *models.ModerationUpdate) (*models.ModerationRecord, bool, error) {
	metadata, err := marshalMetadata(update.Metadata)
	if err != nil {
		return nil, false, err
	}

	query := `
		INSERT INTO ` + tableName + `
			(uuid, page_id, comment_id, thread_id, channel, message_type,
			 adverse, pqc, mi, handled, spam, archived, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (page_id, comment_id) DO UPDATE SET
			thread_id = EXCLUDED.thread_id,
			channel = EXCLUDED.channel,
			message_type = EXCLUDED.message_type,
			adverse = EXCLUDED.adverse,
			pqc = EXCLUDED.pqc,
			mi = EXCLUDED.mi,
			handled = EXCLUDED.handled,
			spam = EXCLUDED.spam,
			archived = EXCLUDED.archived,
			metadata = EXCLUDED.metadata
		RETURNING id, uuid, page_id, comment_id, thread_id, channel, message_type,
		          adverse, pqc, mi, handled, spam, archived, metadata,
		          (xmax = 0) AS inserted
	`
	row := r.db.QueryRowContext(ctx, query,
		uuid.New().String(), update.PageID, update.CommentID,
		nullString(update.ThreadID), nullString(update.Channel), nullString(update.MessageType),
		update.Adverse, update.PQC, update.MI,
		update.Handled, update.Spam, update.Archived,
		metadata,
	)

	var rec models.ModerationRecord
	var threadID, channel, messageType sql.NullString
	var rawMetadata []byte
	var inserted bool
	err = row.Scan(
		&rec.ID, &rec.UUID, &rec.PageID, &rec.CommentID, &threadID, &channel, &messageType,
		&rec.Adverse, &rec.PQC, &rec.MI, &rec.Handled, &rec.Spam, &rec.Archived,
		&rawMetadata, &inserted,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed during upsert: %w", err)
	}

	rec.ThreadID = threadID.String
	rec.Channel = channel.String
	rec.MessageType = messageType.String
	if err := unmarshalMetadata(rawMetadata, &rec); err != nil {
		return nil, false, err
	}

	return &rec, inserted, nil
}

// GetExportData retrieves moderation rows matching the export filters
func (r moderationRepo) GetExportData(ctx context.Context, filters *models.ExportFilters) ([]*models.ModerationRecord, error) {
	query, args := buildExportQuery(filters)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed during export: %w", err)
	}
	defer rows.Close()

	var records []*models.ModerationRecord
	for rows.Next() {
		var rec models.ModerationRecord
		var threadID, channel, messageType sql.NullString
		var metadata []byte
		err := rows.Scan(
			&rec.CommentID, &rec.PageID, &threadID, &channel, &messageType,
			&rec.Adverse, &rec.PQC, &rec.MI, &rec.Handled, &rec.Spam, &rec.Archived,
			&metadata,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export row: %w", err)
		}
		rec.ThreadID = threadID.String
		rec.Channel = channel.String
		rec.MessageType = messageType.String
		if err := unmarshalMetadata(metadata, &rec); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// buildExportQuery assembles the filtered export statement. Date bounds apply
// to the created_time recorded in row metadata and are AND-combined;
// moderation flag filters form one OR group.
func buildExportQuery(filters *models.ExportFilters) (string, []interface{}) {
	query := `
		SELECT comment_id, page_id, thread_id, channel, message_type,
		       adverse, pqc, mi, handled, spam, archived, metadata
		FROM ` + tableName

	var conditions []string
	var args []interface{}

	if filters != nil {
		if filters.StartDate != nil {
			args = append(args, filters.StartDate.Format("2006-01-02"))
			conditions = append(conditions,
				fmt.Sprintf("cast(metadata->>'created_time' as date) >= $%d", len(args)))
		}
		if filters.EndDate != nil {
			args = append(args, filters.EndDate.Format("2006-01-02"))
			conditions = append(conditions,
				fmt.Sprintf("cast(metadata->>'created_time' as date) < $%d", len(args)))
		}

		var flags []string
		if filters.Adverse {
			flags = append(flags, "adverse = TRUE")
		}
		if filters.PQC {
			flags = append(flags, "pqc = TRUE")
		}
		if filters.MI {
			flags = append(flags, "mi = TRUE")
		}
		if len(flags) > 0 {
			conditions = append(conditions, "("+strings.Join(flags, " OR ")+")")
		}

		if len(filters.Clients) > 0 {
			args = append(args, pq.Array(filters.Clients))
			conditions = append(conditions, fmt.Sprintf("page_id = ANY($%d)", len(args)))
		}
	}

	if len(conditions) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\t\tORDER BY id"

	return query, args
}

// scanRecord scans a full moderation row
func scanRecord(row *sql.Row) (*models.ModerationRecord, error) {
	var rec models.ModerationRecord
	var threadID, channel, messageType sql.NullString
	var metadata []byte
	err := row.Scan(
		&rec.ID, &rec.UUID, &rec.PageID, &rec.CommentID, &threadID, &channel, &messageType,
		&rec.Adverse, &rec.PQC, &rec.MI, &rec.Handled, &rec.Spam, &rec.Archived,
		&metadata,
	)
	if err != nil {
		return nil, err
	}
	rec.ThreadID = threadID.String
	rec.Channel = channel.String
	rec.MessageType = messageType.String
	if err := unmarshalMetadata(metadata, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func marshalMetadata(metadata map[string]interface{}) ([]byte, error) {
	if metadata == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	return data, nil
}

func unmarshalMetadata(data []byte, rec *models.ModerationRecord) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &rec.Metadata); err != nil {
		return fmt.Errorf("failed to decode metadata: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
