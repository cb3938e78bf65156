// Package embedding 实现共享嵌入空间：把各实体类型宽度不一的特征向量
// 经线性投影映射到统一的定宽空间，跨类型可比。
package embedding

import (
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/cop-usthb/e-learning-platform/pkg/vectormath"
)

// Projection 是某一实体类型独占的线性映射 R^in → R^out，无偏置项，
// 因此零向量投影仍是零向量。
//
// 权重在启动时按 (kind, in, out) 确定性播种生成：同一配置下每次进程
// 启动得到相同的投影，结果可复现；权重生成后只读。
type Projection struct {
	Kind string
	In   int
	Out  int

	weights [][]float64 // out × in
}

// NewProjection 构建投影。in 取自该实体类型特征表的观测宽度。
func NewProjection(kind string, in, out int) *Projection {
	p := &Projection{Kind: kind, In: in, Out: out}

	h := fnv.New64a()
	h.Write([]byte(kind))
	seed := int64(h.Sum64()) ^ int64(in)<<32 ^ int64(out)
	rng := rand.New(rand.NewSource(seed))

	// 与未训练线性层相同的初始化：U(-1/√in, 1/√in)
	bound := 1.0 / math.Sqrt(float64(in))
	p.weights = make([][]float64, out)
	for o := range p.weights {
		row := make([]float64, in)
		for i := range row {
			row[i] = (rng.Float64()*2 - 1) * bound
		}
		p.weights[o] = row
	}
	return p
}

// Apply 把原始特征行投影进共享空间。输入中的 NaN/Inf 先归零，
// 绝不让它们扩散进嵌入空间。输入宽度不符时返回 nil。
func (p *Projection) Apply(vec []float64) []float64 {
	if len(vec) != p.In {
		return nil
	}
	clean := vectormath.Sanitize(append([]float64(nil), vec...))
	out := make([]float64, p.Out)
	for o, row := range p.weights {
		var sum float64
		for i, w := range row {
			sum += w * clean[i]
		}
		out[o] = sum
	}
	return out
}
