package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-support-chat-be/internal/repository/implementation"
	"ai-support-chat-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Check Passage Embedding Repository", func(t *testing.T) {
		repo := implementation.NewPassageEmbeddingRepository(gormDB)
		count, err := repo.Count(context.Background())
		assert.NoError(t, err)
		t.Logf("PassageEmbedding count: %d", count)
	})

	t.Run("Check Chat Message Repository", func(t *testing.T) {
		repo := implementation.NewChatMessageRepository(gormDB)
		messages, err := repo.FindBySessionId(context.Background(), "nonexistent-session")
		assert.NoError(t, err)
		assert.Empty(t, messages)
	})
}
