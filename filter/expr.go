package filter

import (
	"context"

	"github.com/cop-usthb/e-learning-platform/core"
	"github.com/cop-usthb/e-learning-platform/pkg/dsl"
)

// ExprFilter 是表达式过滤器，使用 CEL 表达式判断物品是否应被过滤。
// 表达式返回 true 表示过滤该物品。
//
// 示例：
//   - `item.score < 0.1` 过滤低分物品
//   - `label.recall_source == "content" && item.score < 0.3`
type ExprFilter struct {
	// Expr 是 CEL 表达式，空表达式不过滤任何物品
	Expr string
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Expr == "" {
		return false, nil
	}

	ok, err := dsl.NewEval(item, rctx).Evaluate(f.Expr)
	if err != nil {
		return false, err
	}
	return ok, nil
}
