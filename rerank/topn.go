package rerank

import (
	"context"

	"github.com/cop-usthb/e-learning-platform/core"
	"github.com/cop-usthb/e-learning-platform/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在重排后截取前 N 个物品。
//
// 使用场景：
//   - MMR 重排之后截取最终返回数量
//   - 控制推荐结果数量
type TopNNode struct {
	// N 要保留的物品数量（Top N）
	// 如果 N <= 0，则返回所有物品（不截断）
	// 如果 N > len(items)，则返回所有物品
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.K
	}
	if limit <= 0 {
		return items, nil
	}
	if len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
