package threadrepo

import (
	"strings"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	"jan-server/services/thread-api/internal/domain/query"
	"jan-server/services/thread-api/internal/infrastructure/database/dbschema"
	"jan-server/services/thread-api/internal/infrastructure/database/transaction"
)

func newDryRunRepo(t *testing.T) (*ThreadGormRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return &ThreadGormRepository{db: transaction.NewDatabase(db)}, db
}

func buildListSQL(t *testing.T, repo *ThreadGormRepository, db *gorm.DB, p *query.Pagination) (string, []interface{}) {
	t.Helper()
	var rows []dbschema.Thread
	stmt := repo.applyPagination(db.Model(&dbschema.Thread{}), p).Find(&rows).Statement
	if stmt.Error != nil {
		t.Fatalf("build statement: %v", stmt.Error)
	}
	return stmt.SQL.String(), stmt.Vars
}

func TestApplyPaginationDescendingCursor(t *testing.T) {
	repo, db := newDryRunRepo(t)
	after := uint(2)
	sql, vars := buildListSQL(t, repo, db, &query.Pagination{After: &after})

	if !strings.Contains(sql, "id < ?") {
		t.Fatalf("descending page must exclude rows at or above the cursor, got %q", sql)
	}
	if strings.Contains(sql, "id > ?") {
		t.Fatalf("descending page must not use an ascending cursor comparison, got %q", sql)
	}
	if !strings.Contains(sql, "ORDER BY id DESC") {
		t.Fatalf("expected descending order on the cursor column, got %q", sql)
	}
	if len(vars) == 0 || vars[0] != after {
		t.Fatalf("expected cursor value %d bound first, got %v", after, vars)
	}
}

func TestApplyPaginationAscendingCursor(t *testing.T) {
	repo, db := newDryRunRepo(t)
	after := uint(2)
	sql, _ := buildListSQL(t, repo, db, &query.Pagination{After: &after, Order: "asc"})

	if !strings.Contains(sql, "id > ?") {
		t.Fatalf("ascending page must start above the cursor, got %q", sql)
	}
	if !strings.Contains(sql, "ORDER BY id ASC") {
		t.Fatalf("expected ascending order on the cursor column, got %q", sql)
	}
}

func TestApplyPaginationDefaults(t *testing.T) {
	repo, db := newDryRunRepo(t)
	sql, vars := buildListSQL(t, repo, db, nil)

	if !strings.Contains(sql, "ORDER BY id DESC") {
		t.Fatalf("nil pagination should list newest-first, got %q", sql)
	}
	if !strings.Contains(sql, "LIMIT ?") {
		t.Fatalf("nil pagination should still cap the page, got %q", sql)
	}
	if len(vars) == 0 || vars[len(vars)-1] != 20 {
		t.Fatalf("expected default limit of 20, got %v", vars)
	}
}
