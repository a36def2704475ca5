package feedback

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"summarylab/internal/apperr"
	"summarylab/internal/database"
	"summarylab/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	rows []domain.Feedback
	err  error
}

func (s *recordingStore) InsertFeedback(_ context.Context, f domain.Feedback) error {
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, f)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validFeedback(rate int) domain.Feedback {
	return domain.Feedback{ClientRequestID: "abc123", UserID: "u1", Rate: rate, Comment: "great"}
}

func TestSubmitRateBounds(t *testing.T) {
	tests := []struct {
		rate int
		ok   bool
	}{
		{0, false},
		{1, true},
		{3, true},
		{5, true},
		{6, false},
		{-1, false},
	}

	for _, tt := range tests {
		store := &recordingStore{}
		sink := NewSink(store, discardLogger())

		_, err := sink.Submit(context.Background(), validFeedback(tt.rate))
		if tt.ok {
			assert.NoError(t, err, "rate %d", tt.rate)
			assert.Len(t, store.rows, 1)
		} else {
			assert.True(t, apperr.IsKind(err, apperr.KindValidation), "rate %d", tt.rate)
			assert.Empty(t, store.rows)
		}
	}
}

func TestSubmitRequiresIdentifiers(t *testing.T) {
	store := &recordingStore{}
	sink := NewSink(store, discardLogger())

	missingRequest := validFeedback(5)
	missingRequest.ClientRequestID = ""
	_, err := sink.Submit(context.Background(), missingRequest)
	assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))

	missingUser := validFeedback(5)
	missingUser.UserID = " "
	_, err = sink.Submit(context.Background(), missingUser)
	assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))

	assert.Empty(t, store.rows)
}

func TestSubmitStampsUTC(t *testing.T) {
	store := &recordingStore{}
	sink := NewSink(store, discardLogger())
	local := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("UTC+3", 3*60*60))
	sink.now = func() time.Time { return local }

	stored, err := sink.Submit(context.Background(), validFeedback(4))
	require.NoError(t, err)

	assert.Equal(t, time.UTC, stored.Timestamp.Location())
	assert.True(t, local.Equal(stored.Timestamp))
	assert.Equal(t, stored, store.rows[0])
}

func TestSubmitWrapsStoreFailure(t *testing.T) {
	sink := NewSink(&recordingStore{err: errors.New("database is locked")}, discardLogger())

	_, err := sink.Submit(context.Background(), validFeedback(5))
	require.Error(t, err)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindPersistence, appErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Contains(t, appErr.Detail, "database is locked")
}

func TestSubmitRoundTripThroughDatabase(t *testing.T) {
	ctx := context.Background()
	db, err := database.New(ctx, filepath.Join(t.TempDir(), "feedback.sqlite"), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sink := NewSink(db, discardLogger())

	start := time.Now().UTC()
	_, err = sink.Submit(ctx, domain.Feedback{ClientRequestID: "abc123", UserID: "u1", Rate: 5, Comment: "great"})
	require.NoError(t, err)
	end := time.Now().UTC()

	rows, err := db.FeedbackByClientRequestID(ctx, "abc123")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "abc123", row.ClientRequestID)
	assert.Equal(t, "u1", row.UserID)
	assert.Equal(t, 5, row.Rate)
	assert.Equal(t, "great", row.Comment)
	assert.False(t, row.Timestamp.Before(start.Truncate(time.Microsecond)))
	assert.False(t, row.Timestamp.After(end))
}
