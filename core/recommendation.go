package core

// Recommendation 是对外输出的单条推荐记录，可直接 JSON 序列化。
// Method 为 "graph"、"content"、"graph + content"；
// "unknown" 只会在溯源标签丢失（不变量被破坏）时出现。
type Recommendation struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Score  float64 `json:"score"` // MMR 分，λ<0.5 且冗余度高时可能为负
	Method string  `json:"method"`
}
