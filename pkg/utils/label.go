package utils

// Label 是推荐链路中的一等公民：可解释、可追踪、可透传。
// 本系统用它承载召回溯源（graph / content）、过滤原因、MMR 标记等。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / rerank / assemble ...
}

// MergeLabel 用于合并同名 Label，遵循“保留历史、可追踪”的默认策略。
// - Value: 以 '|' 累积
// - Source: 以 ',' 累积
//
// 同一物品被图召回与内容召回同时命中时，recall_source 会合并为 "graph|content"，
// 由结果组装层渲染为对外的 "graph + content"。
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
