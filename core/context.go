package core

import "github.com/cop-usthb/e-learning-platform/pkg/utils"

// RecommendContext 承载一次推荐请求的用户/领域/参数信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string
	Domain Domain

	// K 是每个召回源的 top-k。
	K int

	// Lambda 是请求指定的 MMR 相关性/新颖性权衡参数（[0,1]）。
	// nil 表示请求没带，重排节点用自身配置；显式的 0 是合法取值。
	Lambda *float64

	// Labels 是用户级标签，可驱动 Pipeline 行为（如降级标记）。
	Labels map[string]utils.Label

	// Params 请求级上下文参数。服务层会在这里预置
	// "purchased_course_ids"（[]string）供已购过滤器使用。
	Params map[string]any
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
