// Package pipeline 提供推荐链路的核心抽象：把推荐逻辑拆成可组合的 Node 链
// （Recall → Filter → ReRank → PostProcess）。
package pipeline

import (
	"context"

	"github.com/cop-usthb/e-learning-platform/core"
)

// Pipeline 是 Node 链的顺序执行器。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
