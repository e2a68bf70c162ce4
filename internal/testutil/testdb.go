// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"

	"paradise-vista/internal/database"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
)

// NewTestDB opens a private in-memory sqlite database with the full schema migrated.
func NewTestDB(t *testing.T) *database.DBManager {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	m, err := database.Open(sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}
