// Package db は監査記録用のデータベース接続を提供します。
package db

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	scorecardadapters "advisor_backend/internal/feature/scorecard/adapters"
)

const (
	// DefaultConnectTimeout は接続リトライを打ち切るまでの時間です。
	DefaultConnectTimeout = 60 * time.Second
)

// retryInterval は接続リトライの間隔です。テストで短縮できるよう変数にしています。
var retryInterval = 3 * time.Second

// Opener はDSNからgorm.DBを開く関数です。
type Opener func(dsn string) (*gorm.DB, error)

// Dialector はDSNの形式からドライバーを選びます。
//   - postgres:// または postgresql:// で始まる、もしくは host= を含む: PostgreSQL
//   - sqlite: で始まる、またはそれ以外: SQLiteのファイルパス（":memory:" を含む）
func Dialector(dsn string) (gorm.Dialector, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return nil, fmt.Errorf("empty database DSN")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.Contains(dsn, "host="):
		return postgres.Open(dsn), nil
	case strings.HasPrefix(dsn, "sqlite:"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite:")), nil
	default:
		return sqlite.Open(dsn), nil
	}
}

// Open はDSNに応じたドライバーでデータベースを開きます。
func Open(dsn string) (*gorm.DB, error) {
	d, err := Dialector(dsn)
	if err != nil {
		return nil, err
	}
	return gorm.Open(d, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
}

// ConnectWithRetry はtimeoutに達するまで一定間隔で接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(retryInterval)
	}
}

// OpenAuditDB は監査記録用のデータベースに接続し、テーブルをマイグレーションします。
func OpenAuditDB(dsn string) (*gorm.DB, error) {
	db, err := ConnectWithRetry(dsn, DefaultConnectTimeout, Open)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate は監査記録テーブルを作成または更新します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&scorecardadapters.AnalysisModel{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
