package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingOrder(t *testing.T) {
	src := fstest.MapFS{
		"0002_feed.sql":     {Data: []byte("SELECT 2;")},
		"0001_sessions.sql": {Data: []byte("SELECT 1;")},
		"README.md":         {Data: []byte("docs")},
	}

	files, err := Pending(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_sessions.sql", "0002_feed.sql"}, files)
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "0001", Version("0001_portal_sessions.sql"))
	assert.Equal(t, "0003", Version("sql/0003_x_y.sql"))
}

func TestEmbeddedContainsSessionsTable(t *testing.T) {
	files, err := Pending(Embedded())
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "0001_portal_sessions.sql", files[0])
}

func TestSourceFallsBackToEmbedded(t *testing.T) {
	files, err := Pending(Source("/does/not/exist"))
	require.NoError(t, err)
	assert.Contains(t, files, "0001_portal_sessions.sql")

	dir := t.TempDir()
	files, err = Pending(Source(dir))
	require.NoError(t, err)
	assert.Empty(t, files)
}
