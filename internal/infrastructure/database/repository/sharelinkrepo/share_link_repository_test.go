package sharelinkrepo

import (
	"strings"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	"jan-server/services/thread-api/internal/domain/query"
	"jan-server/services/thread-api/internal/infrastructure/database/dbschema"
	"jan-server/services/thread-api/internal/infrastructure/database/transaction"
)

func newDryRunRepo(t *testing.T) (*ShareLinkGormRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return &ShareLinkGormRepository{db: transaction.NewDatabase(db)}, db
}

func buildListSQL(t *testing.T, repo *ShareLinkGormRepository, db *gorm.DB, p *query.Pagination) string {
	t.Helper()
	var rows []dbschema.ShareLink
	stmt := repo.applyPagination(db.Model(&dbschema.ShareLink{}), p).Find(&rows).Statement
	if stmt.Error != nil {
		t.Fatalf("build statement: %v", stmt.Error)
	}
	return stmt.SQL.String()
}

func TestApplyPaginationDescendingCursor(t *testing.T) {
	repo, db := newDryRunRepo(t)
	after := uint(7)
	sql := buildListSQL(t, repo, db, &query.Pagination{After: &after})

	if !strings.Contains(sql, "id < ?") {
		t.Fatalf("descending page must exclude rows at or above the cursor, got %q", sql)
	}
	if !strings.Contains(sql, "ORDER BY id DESC") {
		t.Fatalf("expected descending order on the cursor column, got %q", sql)
	}
}

func TestApplyPaginationAscendingCursor(t *testing.T) {
	repo, db := newDryRunRepo(t)
	after := uint(7)
	sql := buildListSQL(t, repo, db, &query.Pagination{After: &after, Order: "asc"})

	if !strings.Contains(sql, "id > ?") {
		t.Fatalf("ascending page must start above the cursor, got %q", sql)
	}
	if !strings.Contains(sql, "ORDER BY id ASC") {
		t.Fatalf("expected ascending order on the cursor column, got %q", sql)
	}
}
