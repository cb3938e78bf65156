// recommend 是命令行入口：为指定用户生成一次混合推荐并以 JSON 输出。
//
//	recommend <user_id> <domain> [--k 5] [--lambda 0.7] [--config config.yaml]
//
// 日志走 stderr，stdout 只输出 JSON，可直接被上游进程消费。
package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cop-usthb/e-learning-platform/config"
	"github.com/cop-usthb/e-learning-platform/core"
	"github.com/cop-usthb/e-learning-platform/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath   string
		k            int
		lambda       float64
		embeddingDim int
		numLayers    int
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "recommend <user_id> <domain>",
		Short: "Generate hybrid recommendations for a user",
		Long:  "Generate course or article recommendations combining graph propagation and content similarity, diversified with MMR.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().Timestamp().Logger()

			domain, err := core.ParseDomain(args[1])
			if err != nil {
				return err
			}

			cfg := config.Default()
			if configPath != "" {
				cfg, err = config.Load(configPath)
				if err != nil {
					return err
				}
			}
			if embeddingDim > 0 {
				cfg.Model.EmbeddingDim = embeddingDim
			}
			if numLayers > 0 {
				cfg.Model.NumLayers = numLayers
			}

			ctx := cmd.Context()
			rec, cleanup := service.NewFromConfig(ctx, cfg, logger)
			defer cleanup(ctx)

			req := service.Request{
				UserID: args[0],
				Domain: domain,
				K:      k,
			}
			// Changed 区分显式的 --lambda 0 和没传
			if cmd.Flags().Changed("lambda") {
				req.Lambda = &lambda
			}

			recs, err := rec.Recommend(ctx, req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(recs)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	cmd.Flags().IntVar(&k, "k", 0, "recommendations per scorer (default from config)")
	cmd.Flags().Float64Var(&lambda, "lambda", 0, "MMR relevance/diversity trade-off in [0,1] (default from config)")
	cmd.Flags().IntVar(&embeddingDim, "embedding-dim", 0, "shared embedding dimension override")
	cmd.Flags().IntVar(&numLayers, "num-layers", 0, "propagation layers override")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	return cmd
}
