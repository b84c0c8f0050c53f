package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"upwatch/internal/store"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAuditWorker(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&store.Record{}))
	st := store.NewGormStore(db)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	audit := NewAuditService(st, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go audit.Start(ctx)

	audit.LogAction("5551234567", "ACCOUNT_CREATE", "5551234567", "127.0.0.1")

	assert.Eventually(t, func() bool {
		var count int64
		db.Model(&store.Record{}).Where("collection = ?", store.CollectionAudit).Count(&count)
		return count == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestAuditLogActionDoesNotBlock(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	audit := NewAuditService(nil, logger)

	// No worker running; overfill the channel and make sure callers never block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			audit.LogAction("5551234567", "TOKEN_ISSUE", "id", "")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("LogAction blocked on a full channel")
	}
}
