package postgres

import (
	"context"
	"database/sql"
	"os"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphabot-ai/murmur/internal/store"
)

func newMockBackend(t *testing.T) (*Backend, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &Backend{db: db}, mock
}

func TestReadMissing(t *testing.T) {
	b, mock := newMockBackend(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM collections WHERE name = $1`)).
		WithArgs("users").
		WillReturnError(sql.ErrNoRows)

	data, err := b.Read(context.Background(), "users")
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadExisting(t *testing.T) {
	b, mock := newMockBackend(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM collections WHERE name = $1`)).
		WithArgs("posts").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(`[{"id":1}]`))

	data, err := b.Read(context.Background(), "posts")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteUpserts(t *testing.T) {
	b, mock := newMockBackend(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO collections (name, data, updated_at)`)).
		WithArgs("posts", `[]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, b.Write(context.Background(), "posts", []byte(`[]`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsUsesEmbeddedDir(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var gotDir string
	gooseUpContext = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, RunMigrations(context.Background(), db))
	assert.Equal(t, "migrations", gotDir)

	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

// TestAgainstServer runs only when MURMUR_TEST_POSTGRES_DSN points at a
// disposable database.
func TestAgainstServer(t *testing.T) {
	dsn := os.Getenv("MURMUR_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MURMUR_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	b, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer b.Close()

	_, err = b.db.ExecContext(ctx, `DELETE FROM collections WHERE name = 'pgtest'`)
	require.NoError(t, err)

	type item struct {
		N int `json:"n"`
	}
	coll := store.NewCollection[item](store.New(b), "pgtest")
	require.NoError(t, coll.Update(ctx, func(items []item) ([]item, error) {
		return append(items, item{N: 7}), nil
	}))
	items, err := coll.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []item{{N: 7}}, items)
}
