package core

import "github.com/cop-usthb/e-learning-platform/pkg/utils"

// Item 是推荐链路中的统一承载结构：候选物品（课程或文章）的分数、标题、标签。
// Labels 记录召回溯源（graph / content）、过滤原因等；Score 在链路中被逐步改写：
// 召回融合阶段是基于排名的临时分，MMR 之后是最终的 MMR 分。
type Item struct {
	ID     string
	Title  string
	Score  float64
	Meta   map[string]any
	Labels map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// GetLabel 读取 Label。
func (it *Item) GetLabel(key string) (utils.Label, bool) {
	if it.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := it.Labels[key]
	return lbl, ok
}
