// Package vectormath 提供稠密向量的基础运算，是内容打分、MMR 重排与图传播共用的数学层。
package vectormath

import "math"

// Dot 计算向量内积。长度不一致时返回 0。
func Dot(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Cosine 计算余弦相似度。
// 任一侧为零向量时定义为 0（而不是 NaN），这是全链路依赖的约定。
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Mean 计算若干同宽向量的逐元素均值。空输入返回 nil；宽度不一致的向量被跳过。
func Mean(vecs ...[]float64) []float64 {
	var out []float64
	n := 0
	for _, v := range vecs {
		if v == nil {
			continue
		}
		if out == nil {
			out = make([]float64, len(v))
		}
		if len(v) != len(out) {
			continue
		}
		for i := range v {
			out[i] += v[i]
		}
		n++
	}
	if out == nil || n == 0 {
		return nil
	}
	inv := 1.0 / float64(n)
	for i := range out {
		out[i] *= inv
	}
	return out
}

// Sanitize 原地将 NaN/Inf 置为 0，保证脏特征不会污染共享嵌入空间。
func Sanitize(v []float64) []float64 {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			v[i] = 0
		}
	}
	return v
}
