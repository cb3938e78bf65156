package rerank

import (
	"context"

	"github.com/cop-usthb/e-learning-platform/core"
	"github.com/cop-usthb/e-learning-platform/pipeline"
	"github.com/cop-usthb/e-learning-platform/pkg/utils"
	"github.com/cop-usthb/e-learning-platform/pkg/vectormath"
)

// VectorSource 提供用户和物品的向量，embedding.Projector 实现了该接口。
type VectorSource interface {
	UserEmbedding(userID string) ([]float64, bool)
	ItemEmbedding(domain core.Domain, id string) ([]float64, bool)
	HasItems(domain core.Domain) bool
}

// MMRNode 是基于 MMR（Maximal Marginal Relevance）的多样性重排节点。
// 在相关性和多样性之间做贪心权衡：
//
//	mmr(i) = lambda * dot(user, i) - (1 - lambda) * max_{s in selected} cosine(i, s)
//
// 第一个物品按纯相关性选出；之后每一轮选 mmr 分最高的物品，
// 分数相同时保留先进入候选集的物品。
//
// 软降级约定：拿不到用户向量、或该领域根本没有物品向量缓存时跳过重排，
// 原样返回。物品向量缓存存在时，没有向量的候选会被丢弃（无法参与相似度
// 计算），全部丢光则返回空选集。
type MMRNode struct {
	Projector VectorSource

	// Lambda 是相关性权重，1 为纯相关性，0 为纯多样性。
	// rctx.Lambda 非 nil 时优先使用请求里的值，显式的 0 也生效。
	Lambda float64

	// K 是重排后保留的数量；<= 0 时取 2 * rctx.K。
	K int
}

func (n *MMRNode) Name() string {
	return "rerank.mmr"
}

func (n *MMRNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

type mmrCandidate struct {
	item *core.Item
	emb  []float64
	rel  float64
}

func (n *MMRNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 || n.Projector == nil || rctx == nil {
		return items, nil
	}

	user, ok := n.Projector.UserEmbedding(rctx.UserID)
	if !ok {
		return items, nil
	}
	if !n.Projector.HasItems(rctx.Domain) {
		return items, nil
	}

	lambda := n.Lambda
	if rctx.Lambda != nil {
		lambda = *rctx.Lambda
	}
	kOut := n.K
	if kOut <= 0 && rctx.K > 0 {
		kOut = 2 * rctx.K
	}
	if kOut <= 0 {
		kOut = len(items)
	}

	// 无向量的候选无法参与相似度计算，直接丢弃
	cands := make([]*mmrCandidate, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		emb, ok := n.Projector.ItemEmbedding(rctx.Domain, it.ID)
		if !ok {
			continue
		}
		cands = append(cands, &mmrCandidate{
			item: it,
			emb:  emb,
			rel:  vectormath.Dot(user, emb),
		})
	}
	// 有效候选丢光时返回空选集，而不是把无法比较的候选放回去
	if len(cands) == 0 {
		return []*core.Item{}, nil
	}

	selected := make([]*mmrCandidate, 0, kOut)

	// 第一个按纯相关性选出，分数就是相关性
	best := 0
	for i := 1; i < len(cands); i++ {
		if cands[i].rel > cands[best].rel {
			best = i
		}
	}
	first := cands[best]
	first.item.Score = first.rel
	selected = append(selected, first)
	cands = append(cands[:best], cands[best+1:]...)

	for len(selected) < kOut && len(cands) > 0 {
		bestIdx := -1
		bestScore := 0.0
		for i, c := range cands {
			maxSim := 0.0
			for j, s := range selected {
				sim := vectormath.Cosine(c.emb, s.emb)
				if j == 0 || sim > maxSim {
					maxSim = sim
				}
			}
			score := lambda*c.rel - (1-lambda)*maxSim
			if bestIdx < 0 || score > bestScore {
				bestIdx = i
				bestScore = score
			}
		}
		chosen := cands[bestIdx]
		chosen.item.Score = bestScore
		selected = append(selected, chosen)
		cands = append(cands[:bestIdx], cands[bestIdx+1:]...)
	}

	out := make([]*core.Item, 0, len(selected))
	for _, c := range selected {
		c.item.PutLabel("rerank", utils.Label{Value: "mmr", Source: n.Name()})
		out = append(out, c.item)
	}
	return out, nil
}
