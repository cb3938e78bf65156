package config

import (
	"fmt"
	"time"

	"github.com/cop-usthb/e-learning-platform/embedding"
	"github.com/cop-usthb/e-learning-platform/filter"
	"github.com/cop-usthb/e-learning-platform/graph"
	"github.com/cop-usthb/e-learning-platform/index"
	"github.com/cop-usthb/e-learning-platform/model"
	"github.com/cop-usthb/e-learning-platform/pipeline"
	"github.com/cop-usthb/e-learning-platform/pkg/conv"
	"github.com/cop-usthb/e-learning-platform/recall"
	"github.com/cop-usthb/e-learning-platform/rerank"
)

// Runtime 是 Node 构建器需要的进程级只读状态：
// 实体索引、交互图、传播模型、投影器，全部在启动阶段构建一次。
// 任意一项可为 nil（对应能力降级），构建出的 Node 会软失败。
type Runtime struct {
	Space     *index.Space
	Edges     *graph.EdgeSet
	Model     model.PropagationModel
	Projector *embedding.Projector
}

// Factory 返回注册了全部内置 Node 的工厂。
func Factory(rt *Runtime) *pipeline.NodeFactory {
	f := pipeline.NewNodeFactory()

	f.Register("recall.fanout", func(cfg map[string]any) (pipeline.Node, error) {
		return buildFanoutNode(rt, cfg)
	})
	f.Register("filter", buildFilterNode)
	f.Register("rerank.mmr", func(cfg map[string]any) (pipeline.Node, error) {
		return &rerank.MMRNode{
			Projector: rt.Projector,
			Lambda:    conv.ConfigGetFloat(cfg, "lambda", 0.7),
			K:         conv.ConfigGetInt(cfg, "k", 0),
		}, nil
	})
	f.Register("rerank.topn", func(cfg map[string]any) (pipeline.Node, error) {
		return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
	})

	return f
}

func buildFanoutNode(rt *Runtime, cfg map[string]any) (pipeline.Node, error) {
	sourcesCfg, ok := cfg["sources"].([]any)
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}

	sources := make([]recall.Source, 0, len(sourcesCfg))
	for _, sc := range sourcesCfg {
		sourceMap, ok := sc.(map[string]any)
		if !ok {
			continue
		}
		sourceType := conv.ConfigGet[string](sourceMap, "type", "")
		switch sourceType {
		case "graph":
			sources = append(sources, &recall.GraphRecall{
				Model: rt.Model,
				Space: rt.Space,
				Edges: rt.Edges,
				TopK:  conv.ConfigGetInt(sourceMap, "top_k", 0),
			})
		case "content":
			sources = append(sources, &recall.ContentRecall{
				Projector: rt.Projector,
				TopK:      conv.ConfigGetInt(sourceMap, "top_k", 0),
			})
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}

	fanout := &recall.Fanout{Sources: sources}
	if sec := conv.ConfigGetInt(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	return fanout, nil
}

func buildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	node := &filter.FilterNode{}

	if conv.ConfigGet[bool](cfg, "purchased", true) {
		node.Filters = append(node.Filters, &filter.PurchasedFilter{})
	}
	if ids := conv.SliceAnyToString(cfg["blacklist"]); len(ids) > 0 {
		node.Filters = append(node.Filters, &filter.BlacklistFilter{ItemIDs: ids})
	}
	if expr := conv.ConfigGet[string](cfg, "expr", ""); expr != "" {
		node.Filters = append(node.Filters, &filter.ExprFilter{Expr: expr})
	}

	return node, nil
}
