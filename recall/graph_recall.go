package recall

import (
	"context"

	"github.com/cop-usthb/e-learning-platform/core"
	"github.com/cop-usthb/e-learning-platform/graph"
	"github.com/cop-usthb/e-learning-platform/index"
	"github.com/cop-usthb/e-learning-platform/model"
	"github.com/cop-usthb/e-learning-platform/pkg/utils"
)

// GraphRecall 是图传播召回源：把候选节点限制在请求领域的索引区块内，
// 调用传播模型的 top-k 排序，再经区块偏移把节点索引映射回外部 ID。
//
// 软失败（返回空）的情形：模型未初始化、用户不在实体索引中、
// 该领域目录为空。这些都是降级状态，不是错误。
type GraphRecall struct {
	Model model.PropagationModel
	Space *index.Space
	Edges *graph.EdgeSet

	// TopK 是 rctx 未指定 K 时的默认值
	TopK int
}

func (r *GraphRecall) Name() string { return "recall.graph" }

func (r *GraphRecall) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if r.Model == nil || r.Space == nil || r.Edges == nil || rctx == nil {
		return nil, nil
	}
	userIdx, ok := r.Space.UserIndex(rctx.UserID)
	if !ok {
		return nil, nil
	}

	var offset, count int
	switch rctx.Domain {
	case core.DomainCourse:
		offset, count = r.Space.CourseOffset(), r.Space.NumCourses()
	case core.DomainArticle:
		offset, count = r.Space.ArticleOffset(), r.Space.NumArticles()
	default:
		return nil, nil
	}
	if count == 0 {
		return nil, nil
	}

	k := rctx.K
	if k <= 0 {
		k = r.TopK
	}
	if k <= 0 {
		k = 5
	}

	candidates := make([]int, count)
	for i := range candidates {
		candidates[i] = offset + i
	}

	top, err := r.Model.TopK(r.Edges, userIdx, candidates, k)
	if err != nil {
		// 模型拒绝输入等同于该用户不可图召回
		return nil, nil
	}

	out := make([]*core.Item, 0, len(top))
	for _, node := range top {
		var id string
		var found bool
		switch rctx.Domain {
		case core.DomainCourse:
			id, found = r.Space.CourseID(node)
		case core.DomainArticle:
			id, found = r.Space.ArticleID(node)
		}
		if !found {
			continue
		}
		it := core.NewItem(id)
		it.PutLabel("recall_source", utils.Label{Value: "graph", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

var _ Source = (*GraphRecall)(nil)
