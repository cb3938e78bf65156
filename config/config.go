// Package config 定义应用级配置与 Node 工厂。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cop-usthb/e-learning-platform/pipeline"
)

// Config 是服务的全量配置。
type Config struct {
	Mongo    MongoConfig    `yaml:"mongo"`
	Redis    RedisConfig    `yaml:"redis"`
	Features FeatureConfig  `yaml:"features"`
	Model    ModelConfig    `yaml:"model"`
	Serve    ServeConfig    `yaml:"serve"`
	Defaults DefaultsConfig `yaml:"defaults"`

	// Pipeline 是可选的自定义链路节点列表，经 Factory 装配；
	// 为空时服务用内置的 召回→过滤→MMR 默认链路
	Pipeline []pipeline.NodeConfig `yaml:"pipeline"`
}

// MongoConfig 是文档库连接配置。
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// RedisConfig 是推荐结果缓存配置。Enabled 为 false 时用内存缓存。
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	DB      int    `yaml:"db"`

	// TTLSeconds 是缓存条目的过期时间
	TTLSeconds int `yaml:"ttl_seconds"`
}

// FeatureConfig 是四张特征表的 CSV 路径，任意一项可为空（对应能力降级）。
type FeatureConfig struct {
	UserCourse  string `yaml:"user_course"`
	UserArticle string `yaml:"user_article"`
	Course      string `yaml:"course"`
	Article     string `yaml:"article"`
}

// ModelConfig 是图传播模型配置。
type ModelConfig struct {
	// Artifact 是导出的模型权重文件（JSON），为空时图召回被禁用
	Artifact     string `yaml:"artifact"`
	EmbeddingDim int    `yaml:"embedding_dim"`
	NumLayers    int    `yaml:"num_layers"`
}

// ServeConfig 是 HTTP 服务配置。
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultsConfig 是请求参数的默认值。
type DefaultsConfig struct {
	K      int     `yaml:"k"`
	Lambda float64 `yaml:"lambda"`
}

// Default 返回内置默认配置。
func Default() *Config {
	return &Config{
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "Online_courses",
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			TTLSeconds: 300,
		},
		Model: ModelConfig{
			EmbeddingDim: 64,
			NumLayers:    3,
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
		Defaults: DefaultsConfig{
			K:      5,
			Lambda: 0.7,
		},
	}
}

// Load 读取 YAML 配置文件，未设置的字段保持内置默认值。
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
