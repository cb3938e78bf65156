package recall

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cop-usthb/e-learning-platform/core"
	"github.com/cop-usthb/e-learning-platform/pipeline"
)

// Fanout 是候选融合节点：并发执行全部召回源，按物品 ID 取并集。
//
// 融合规则：
//   - 每路结果内按排名赋临时分 1.0 − 0.1·rank（rank 从 0 起）
//   - 同一物品被多路命中时保留首次出现的条目与临时分，溯源标签合并
//     （recall_source 变为 "graph|content"，由结果组装层渲染 " + "）
//   - 单路召回出错等同于该路为空，不中断其余召回源
//
// 临时分只服务于 MMR 被跳过的降级路径；MMR 正常执行时会改写 Score。
type Fanout struct {
	Sources []Source
	Timeout time.Duration // 每个召回源的超时时间（0 表示不限制）
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	// 按源保序收集，融合时才能还原每路内的排名
	results := make([][]*core.Item, len(n.Sources))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, src := range n.Sources {
		i, s := i, src
		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}
			items, err := s.Recall(recallCtx, rctx)
			if err != nil {
				// 软失败：该路为空
				return nil
			}
			results[i] = items
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]*core.Item)
	out := make([]*core.Item, 0, len(n.Sources)*8)
	for _, list := range results {
		for rank, it := range list {
			if it == nil {
				continue
			}
			it.Score = 1.0 - 0.1*float64(rank)
			if old, ok := seen[it.ID]; ok {
				// 已有条目胜出；只合并溯源标签
				for k, v := range it.Labels {
					old.PutLabel(k, v)
				}
				continue
			}
			seen[it.ID] = it
			out = append(out, it)
		}
	}
	return out, nil
}
