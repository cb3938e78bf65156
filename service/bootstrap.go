package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cop-usthb/e-learning-platform/config"
	"github.com/cop-usthb/e-learning-platform/core"
	"github.com/cop-usthb/e-learning-platform/embedding"
	"github.com/cop-usthb/e-learning-platform/feature"
	"github.com/cop-usthb/e-learning-platform/store"
)

// NewFromConfig 按应用配置装配 Recommender：连文档库、连缓存、读特征表。
// 任何一个外部依赖不可用都只会降级对应能力，装配本身不失败。
// 返回的 cleanup 负责释放连接。
func NewFromConfig(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Recommender, func(context.Context)) {
	var catalog core.CatalogStore
	if cfg.Mongo.URI != "" {
		mc, err := store.NewMongoCatalog(ctx, cfg.Mongo.URI, cfg.Mongo.Database, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("catalog unavailable")
		} else {
			catalog = mc
		}
	}

	var cache core.Store
	if cfg.Redis.Enabled {
		rs, err := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			logger.Warn().Err(err).Msg("result cache unavailable, continuing without caching")
		} else {
			cache = rs
		}
	}

	loadTable := func(path, name string) *feature.Table {
		if path == "" {
			return nil
		}
		tab, err := feature.LoadCSV(path)
		if err != nil {
			logger.Warn().Err(err).Str("table", name).Msg("feature table unavailable")
			return nil
		}
		logger.Info().Str("table", name).Int("rows", tab.Len()).Msg("feature table loaded")
		return tab
	}

	rec := New(ctx, Options{
		Catalog:    catalog,
		Cache:      cache,
		TTLSeconds: cfg.Redis.TTLSeconds,
		Tables: embedding.Tables{
			UserCourse:  loadTable(cfg.Features.UserCourse, "user_course"),
			UserArticle: loadTable(cfg.Features.UserArticle, "user_article"),
			Course:      loadTable(cfg.Features.Course, "course"),
			Article:     loadTable(cfg.Features.Article, "article"),
		},
		ModelArtifact: cfg.Model.Artifact,
		EmbeddingDim:  cfg.Model.EmbeddingDim,
		NumLayers:     cfg.Model.NumLayers,
		Pipeline:      cfg.Pipeline,
		DefaultK:      cfg.Defaults.K,
		DefaultLambda: cfg.Defaults.Lambda,
		Logger:        logger,
	})

	cleanup := func(ctx context.Context) {
		if catalog != nil {
			_ = catalog.Close(ctx)
		}
		if cache != nil {
			_ = cache.Close()
		}
	}
	return rec, cleanup
}
