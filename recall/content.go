package recall

import (
	"context"
	"sort"

	"github.com/cop-usthb/e-learning-platform/core"
	"github.com/cop-usthb/e-learning-platform/embedding"
	"github.com/cop-usthb/e-learning-platform/pkg/utils"
	"github.com/cop-usthb/e-learning-platform/pkg/vectormath"
)

// ContentRecall 是内容相似召回源：统一用户嵌入对目标领域全部缓存
// 物品嵌入逐一算余弦相似度，取前 k。
//
// 软失败（返回空）的情形：该用户无法构建统一嵌入（两张用户特征表
// 都没有这个用户）、目标领域的物品嵌入缓存为空。
// 并列打破规则：目录遍历顺序（特征表行序），与内容无关但稳定。
type ContentRecall struct {
	Projector *embedding.Projector

	// TopK 是 rctx 未指定 K 时的默认值
	TopK int
}

func (r *ContentRecall) Name() string { return "recall.content" }

func (r *ContentRecall) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if r.Projector == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}
	userEmb, ok := r.Projector.UserEmbedding(rctx.UserID)
	if !ok {
		return nil, nil
	}
	order := r.Projector.ItemOrder(rctx.Domain)
	if len(order) == 0 {
		return nil, nil
	}

	k := rctx.K
	if k <= 0 {
		k = r.TopK
	}
	if k <= 0 {
		k = 5
	}

	type scored struct {
		id    string
		score float64
	}
	all := make([]scored, 0, len(order))
	for _, id := range order {
		emb, ok := r.Projector.ItemEmbedding(rctx.Domain, id)
		if !ok {
			continue
		}
		all = append(all, scored{id: id, score: vectormath.Cosine(userEmb, emb)})
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })
	if len(all) > k {
		all = all[:k]
	}

	out := make([]*core.Item, 0, len(all))
	for _, s := range all {
		it := core.NewItem(s.id)
		it.Score = s.score
		it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

var _ Source = (*ContentRecall)(nil)
