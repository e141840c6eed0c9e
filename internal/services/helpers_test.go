package services

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pirinku/go-recipe-backend/internal/repo"
)

// newServiceDB opens a throwaway SQLite database with the full schema.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("svc_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// fakeMailer records outbound emails and can be told to fail.
type fakeMailer struct {
	otpCalls   []mailCall
	resetCalls []mailCall
	fail       bool
}

type mailCall struct {
	to, username, code string
}

func (m *fakeMailer) SendOTPEmail(to, username, code string) error {
	if m.fail {
		return fmt.Errorf("smtp down")
	}
	m.otpCalls = append(m.otpCalls, mailCall{to, username, code})
	return nil
}

func (m *fakeMailer) SendPasswordResetEmail(to, username, code string) error {
	if m.fail {
		return fmt.Errorf("smtp down")
	}
	m.resetCalls = append(m.resetCalls, mailCall{to, username, code})
	return nil
}
