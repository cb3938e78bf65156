package filter

import (
	"context"

	"github.com/cop-usthb/e-learning-platform/core"
)

// PurchasedFilter 过滤掉用户已购买的课程，避免重复推荐。
// 只在课程域生效，文章域直接放行。
// 已购课程 ID 列表由上层预先写入 rctx.Params["purchased_course_ids"]。
type PurchasedFilter struct{}

func (f *PurchasedFilter) Name() string {
	return "filter.purchased"
}

func (f *PurchasedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if rctx == nil || rctx.Domain != core.DomainCourse {
		return false, nil
	}

	ids, ok := rctx.Params["purchased_course_ids"].([]string)
	if !ok {
		return false, nil
	}
	for _, id := range ids {
		if item.ID == id {
			return true, nil
		}
	}
	return false, nil
}
