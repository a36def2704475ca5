package database

import (
	"context"
	"fmt"

	"summarylab/internal/domain"
)

// InsertFeedback writes one feedback row over a dedicated connection that is
// returned to the pool before the call completes, on success and on failure.
func (d *Database) InsertFeedback(ctx context.Context, f domain.Feedback) error {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			d.log.ErrorContext(ctx, "Failed to release connection",
				"error", closeErr,
				"clientRequestID", f.ClientRequestID,
				"operation", "InsertFeedback")
		}
	}()

	query := `insert into feedback
	(client_request_id, user_id, feedback_rate, feedback_text, feedback_timestamp)
	values (?, ?, ?, ?, ?)`

	if _, err = conn.ExecContext(ctx, query,
		f.ClientRequestID,
		f.UserID,
		f.Rate,
		f.Comment,
		f.Timestamp.UTC(),
	); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}

	return nil
}

func (d *Database) FeedbackByClientRequestID(
	ctx context.Context,
	clientRequestID string,
) ([]domain.Feedback, error) {
	query := `select client_request_id, user_id, feedback_rate, feedback_text, feedback_timestamp
	from feedback
	where client_request_id = ?
	order by id`

	rows, err := d.db.QueryContext(ctx, query, clientRequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"clientRequestID", clientRequestID,
				"operation", "FeedbackByClientRequestID")
		}
	}()

	var feedback []domain.Feedback
	for rows.Next() {
		var f domain.Feedback
		if err = rows.Scan(&f.ClientRequestID, &f.UserID, &f.Rate, &f.Comment, &f.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		f.Timestamp = f.Timestamp.UTC()
		feedback = append(feedback, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return feedback, nil
}
