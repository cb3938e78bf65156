// Package recall 实现候选生成：图传播召回、内容相似召回，
// 以及把两路结果融合为带溯源标签候选集的 Fanout 节点。
package recall

import (
	"context"

	"github.com/cop-usthb/e-learning-platform/core"
)

// Source 表示一个可复用的召回源（图传播 / 内容相似 / ...）。
// 也就是可并发 fan-out 的策略单元。
//
// 约定：召回源只做软失败——自身能力不可用或该用户无法召回时
// 返回 (nil, nil)，绝不让单路故障波及整个请求。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
