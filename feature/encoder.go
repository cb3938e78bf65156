package feature

import "fmt"

// OneHotEncoder One-Hot 编码（独热编码）。
// 离线管道用它把课程/文章的类别属性展开成 0/1 特征列，
// 产出的就是 LoadCSV 消费的物品特征表；测试里也用它构造小表。
type OneHotEncoder struct {
	Categories map[string][]string // 每个特征名对应的类别列表（决定列序）
	Prefix     string              // 特征名前缀
}

// NewOneHotEncoder 创建 One-Hot 编码器。
func NewOneHotEncoder(categories map[string][]string) *OneHotEncoder {
	return &OneHotEncoder{Categories: categories}
}

// WithPrefix 设置特征名前缀。
func (e *OneHotEncoder) WithPrefix(prefix string) *OneHotEncoder {
	e.Prefix = prefix
	return e
}

// EncodeWithKey 编码单个值（指定特征名）。
func (e *OneHotEncoder) EncodeWithKey(key string, value any) map[string]float64 {
	encoded := make(map[string]float64)
	categories, ok := e.Categories[key]
	if !ok {
		return encoded
	}

	valStr := fmt.Sprintf("%v", value)
	prefix := e.Prefix
	if prefix != "" {
		prefix = prefix + "_"
	}

	for i, cat := range categories {
		featureName := fmt.Sprintf("%s%s_%d", prefix, key, i)
		if cat == valStr {
			encoded[featureName] = 1.0
		} else {
			encoded[featureName] = 0.0
		}
	}
	return encoded
}

// EncodeFeatures 编码特征字典（批量编码）。
func (e *OneHotEncoder) EncodeFeatures(features map[string]any) map[string]float64 {
	encoded := make(map[string]float64)
	for k, v := range features {
		for ek, ev := range e.EncodeWithKey(k, v) {
			encoded[ek] = ev
		}
	}
	return encoded
}
