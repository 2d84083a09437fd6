// Loader ingests a directory of résumé PDFs into the record store. Record ids
// are derived from the file name, so re-running the loader updates records in
// place instead of duplicating them.
package main

import (
	"context"
	"encoding/base64"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/config"
	dbRedis "github.com/kailas-cloud/resumatch/internal/db/redis"
	"github.com/kailas-cloud/resumatch/internal/domain"
	logpkg "github.com/kailas-cloud/resumatch/internal/logger"
	recordrepo "github.com/kailas-cloud/resumatch/internal/repository/record"
)

func main() {
	dir := flag.String("dir", "resumes", "directory with resume PDF files")
	flag.Parse()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}

	records := recordrepo.New(store)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		logger.Fatal("Cannot read resume directory", zap.String("dir", *dir), zap.Error(err))
	}

	created, updated, failed := 0, 0, 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}

		path := filepath.Join(*dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Cannot read file", zap.String("path", path), zap.Error(err))
			failed++
			continue
		}

		rec := domain.Record{
			ID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte(entry.Name())).String(),
			FileName:  entry.Name(),
			File:      base64.StdEncoding.EncodeToString(data),
			UpdatedAt: time.Now().UTC(),
		}
		isNew, err := records.Upsert(ctx, &rec)
		if err != nil {
			logger.Warn("Cannot store record", zap.String("file", entry.Name()), zap.Error(err))
			failed++
			continue
		}
		if isNew {
			created++
		} else {
			updated++
		}
	}

	logger.Info("Load complete",
		zap.String("dir", *dir),
		zap.Int("created", created),
		zap.Int("updated", updated),
		zap.Int("failed", failed),
	)
}
