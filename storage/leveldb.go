package storage

import (
	"fmt"
	"path/filepath"

	log "github.com/abcfe/avax-types/common/logger"
	"github.com/abcfe/avax-types/config"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

func InitDB(cfg *config.Config) (*leveldb.DB, error) {
	dbName := fmt.Sprintf("leveldb_%d.db", cfg.Common.NetworkID)
	dbPath := filepath.Join(cfg.DB.Path, dbName)

	// Create DB directory if it does not exist
	db, err := leveldb.OpenFile(dbPath, nil)
	if err != nil {
		log.Error("Failed to open db: ", err)
		return nil, err
	}

	log.Info("Successfully opened db: ", dbPath)
	return db, nil
}

// InitMemDB opens an in-memory database, used by tests and dry runs.
func InitMemDB() (*leveldb.DB, error) {
	return leveldb.Open(storage.NewMemStorage(), nil)
}
