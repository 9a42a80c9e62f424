package db

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connectTestDB skips unless TEST_DATABASE_URL points at a disposable
// database.
func connectTestDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Skipping database test: TEST_DATABASE_URL not set")
	}

	database, err := Connect(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(database.Close)
	require.NoError(t, database.Migrate(context.Background()))
	return database
}

// readArtifact pulls the stored columns straight from the table; the
// package exposes no read path, persistence is write-only auditing.
func readArtifact(t *testing.T, database *DB, runID uuid.UUID, stage string) (jsonContent, textContent []byte) {
	t.Helper()
	err := database.pool.QueryRow(context.Background(),
		`SELECT content, text_content FROM run_artifacts WHERE run_id = $1 AND stage = $2`,
		runID, stage,
	).Scan(&jsonContent, &textContent)
	require.NoError(t, err)
	return jsonContent, textContent
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "not-a-url")
	assert.Error(t, err)
}

func TestRunLifecycle(t *testing.T) {
	database := connectTestDB(t)
	ctx := context.Background()

	runID, err := database.CreateRun(ctx, "https://example.com/job")
	require.NoError(t, err)

	require.NoError(t, database.SaveArtifact(ctx, runID, "job_extracted", map[string]string{
		"title": "Engineer", "company": "Acme",
	}))
	require.NoError(t, database.SaveTextArtifact(ctx, runID, "cover_letter", "Dear Hiring Manager,"))

	jsonContent, _ := readArtifact(t, database, runID, "job_extracted")
	assert.Contains(t, string(jsonContent), "Acme")

	_, textContent := readArtifact(t, database, runID, "cover_letter")
	assert.Equal(t, "Dear Hiring Manager,", string(textContent))

	require.NoError(t, database.CompleteRun(ctx, runID, "completed", "Acme", "Engineer", "/tmp/out"))
}

func TestSaveArtifact_ReplacesOnSameStage(t *testing.T) {
	database := connectTestDB(t)
	ctx := context.Background()

	runID, err := database.CreateRun(ctx, "https://example.com/job")
	require.NoError(t, err)

	require.NoError(t, database.SaveArtifact(ctx, runID, "stage", map[string]string{"v": "1"}))
	require.NoError(t, database.SaveArtifact(ctx, runID, "stage", map[string]string{"v": "2"}))

	jsonContent, _ := readArtifact(t, database, runID, "stage")
	assert.Contains(t, string(jsonContent), `"2"`)
}
