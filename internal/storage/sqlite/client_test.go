package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KillMonga130/AI-agent-aws/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.InitSchema())
	return client
}

func record(id, session string, createdAt time.Time) *models.QueryRecord {
	return &models.QueryRecord{
		ID:         id,
		SessionID:  session,
		QueryText:  "is it safe to sail?",
		Response:   "yes, conditions are calm",
		RiskLevel:  "LOW",
		RiskScore:  10,
		AlertLevel: "INFORMATIONAL",
		Confidence: 0.9,
		LatencyMS:  1200,
		CreatedAt:  createdAt,
	}
}

func TestQueryHistory(t *testing.T) {
	base := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("insert and read back", func(t *testing.T) {
		client := newTestClient(t)

		require.NoError(t, client.InsertQueryRecord(record("q1", "s1", base)))

		records, err := client.RecentQueries("", 10)
		require.NoError(t, err)
		require.Len(t, records, 1)

		got := records[0]
		assert.Equal(t, "q1", got.ID)
		assert.Equal(t, "s1", got.SessionID)
		assert.Equal(t, "is it safe to sail?", got.QueryText)
		assert.Equal(t, "LOW", got.RiskLevel)
		assert.Equal(t, 10.0, got.RiskScore)
		assert.Equal(t, 1200, got.LatencyMS)
		assert.Equal(t, base, got.CreatedAt)
	})

	t.Run("filter by session", func(t *testing.T) {
		client := newTestClient(t)

		require.NoError(t, client.InsertQueryRecord(record("q1", "s1", base)))
		require.NoError(t, client.InsertQueryRecord(record("q2", "s2", base.Add(time.Minute))))
		require.NoError(t, client.InsertQueryRecord(record("q3", "s1", base.Add(2*time.Minute))))

		records, err := client.RecentQueries("s1", 10)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "q3", records[0].ID) // newest first
		assert.Equal(t, "q1", records[1].ID)
	})

	t.Run("limit applied", func(t *testing.T) {
		client := newTestClient(t)

		for i := 0; i < 5; i++ {
			require.NoError(t, client.InsertQueryRecord(
				record(string(rune('a'+i)), "s1", base.Add(time.Duration(i)*time.Minute))))
		}

		records, err := client.RecentQueries("s1", 3)
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		client := newTestClient(t)

		require.NoError(t, client.InsertQueryRecord(record("dup", "s1", base)))
		assert.Error(t, client.InsertQueryRecord(record("dup", "s1", base)))
	})
}
