package service

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// newMockDB creates a *gorm.DB backed by go-sqlmock. The mysql dialector
// only pins the SQL placeholder style; no real database is contacted.
// SkipDefaultTransaction avoids implicit BEGIN/COMMIT around writes, which
// keeps the expectations flat.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	sqldb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqldb, SkipInitializeWithVersion: true}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		_ = sqldb.Close()
		t.Fatalf("gorm.Open: %v", err)
	}

	return db, mock, sqldb
}

var userColumns = []string{"id", "name", "email", "role", "study_access", "created_at", "updated_at"}

func userRow(id uint, name, email, role string, studyAccess string) []driver.Value {
	now := time.Now()
	var access driver.Value
	if studyAccess != "" {
		access = []byte(studyAccess)
	}
	return []driver.Value{id, name, email, role, access, now, now}
}

var notificationColumns = []string{
	"id", "event_key", "title", "description", "type", "priority",
	"trial_id", "source", "related_entity_type", "related_entity_id",
	"action_url", "user_id", "is_read", "read_at", "target_roles",
	"target_users", "created_at",
}

// broadcastRow builds a broadcast notification row (user_id NULL).
func broadcastRow(id uint, eventKey, typ, priority string, trialID driver.Value, targetRoles, targetUsers string) []driver.Value {
	var roles, users driver.Value
	if targetRoles != "" {
		roles = []byte(targetRoles)
	}
	if targetUsers != "" {
		users = []byte(targetUsers)
	}
	return []driver.Value{
		id, eventKey, "title", "", typ, priority,
		trialID, "", "", nil,
		"", nil, false, nil, roles,
		users, time.Now(),
	}
}

// directRow builds a direct notification row owned by userID.
func directRow(id uint, eventKey string, userID uint, isRead bool) []driver.Value {
	return []driver.Value{
		id, eventKey, "title", "", "task", "medium",
		nil, "", "", nil,
		"", userID, isRead, nil, nil,
		nil, time.Now(),
	}
}
