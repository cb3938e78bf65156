package model

import (
	"fmt"
	"math"
	"os"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/cop-usthb/e-learning-platform/core"
	"github.com/cop-usthb/e-learning-platform/graph"
	"github.com/cop-usthb/e-learning-platform/pkg/vectormath"
)

// LightGCN 是轻量图卷积协同过滤模型的推理端。
//
// 预训练产物只包含每节点的第 0 层嵌入；推理时做 num_layers 轮
// 对称归一化的邻居聚合（1/√(deg_i·deg_j)），最终嵌入取各层（含第 0 层）
// 的均值，候选按与用户最终嵌入的内积降序排序。
//
// 交互图在进程生命周期内不变，传播结果按图缓存一次；
// TopK 可被并发请求安全调用。
type LightGCN struct {
	Dim    int
	Layers int

	weights [][]float64 // numNodes × Dim，第 0 层嵌入

	mu       sync.Mutex
	propFor  *graph.EdgeSet
	final    [][]float64
}

// lightGCNArtifact 是模型产物的持久化形态。
type lightGCNArtifact struct {
	EmbeddingDim int         `json:"embedding_dim"`
	NumLayers    int         `json:"num_layers"`
	Weights      [][]float64 `json:"weights"`
}

// LoadLightGCN 从产物文件加载模型。
// numNodes 是实体索引空间的节点总数；产物的节点数或维度与期望不符时
// 返回错误，由调用方把图打分能力降级（不是致命错误）。
func LoadLightGCN(path string, numNodes, dim, layers int) (*LightGCN, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var art lightGCNArtifact
	if err := json.Unmarshal(raw, &art); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	if art.EmbeddingDim != dim {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("model: artifact dim %d != configured dim %d", art.EmbeddingDim, dim))
	}
	if len(art.Weights) != numNodes {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("model: artifact has %d nodes, index space has %d", len(art.Weights), numNodes))
	}
	for i, row := range art.Weights {
		if len(row) != dim {
			return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
				fmt.Sprintf("model: node %d embedding width %d != %d", i, len(row), dim))
		}
	}
	if layers <= 0 {
		layers = art.NumLayers
	}
	if layers <= 0 {
		layers = 3
	}
	return &LightGCN{Dim: dim, Layers: layers, weights: art.Weights}, nil
}

// NewLightGCN 直接用内存权重构建模型（测试与离线工具使用）。
func NewLightGCN(weights [][]float64, dim, layers int) *LightGCN {
	return &LightGCN{Dim: dim, Layers: layers, weights: weights}
}

func (m *LightGCN) Name() string { return "lightgcn" }

// TopK 在候选集内返回前 k 个节点，按亲和度降序；并列保持候选枚举顺序。
func (m *LightGCN) TopK(edges *graph.EdgeSet, userNode int, candidates []int, k int) ([]int, error) {
	n := len(m.weights)
	if userNode < 0 || userNode >= n {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("model: user node %d out of range", userNode))
	}
	if len(candidates) == 0 || k <= 0 {
		return nil, nil
	}

	final := m.propagated(edges)
	userEmb := final[userNode]

	type scored struct {
		node  int
		score float64
	}
	out := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if c < 0 || c >= n {
			continue
		}
		out = append(out, scored{node: c, score: vectormath.Dot(userEmb, final[c])})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })

	if k > len(out) {
		k = len(out)
	}
	top := make([]int, k)
	for i := 0; i < k; i++ {
		top[i] = out[i].node
	}
	return top, nil
}

// propagated 返回各层均值后的最终嵌入，对同一张图只计算一次。
func (m *LightGCN) propagated(edges *graph.EdgeSet) [][]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.propFor == edges && m.final != nil {
		return m.final
	}

	n := len(m.weights)
	adj := edges.Adjacency(n)
	deg := edges.Degrees(n)

	norm := make([]float64, n)
	for i, d := range deg {
		if d > 0 {
			norm[i] = 1.0 / math.Sqrt(float64(d))
		}
	}

	acc := make([][]float64, n)
	cur := make([][]float64, n)
	for i := range m.weights {
		acc[i] = append([]float64(nil), m.weights[i]...)
		cur[i] = m.weights[i]
	}

	for layer := 0; layer < m.Layers; layer++ {
		next := make([][]float64, n)
		for i := 0; i < n; i++ {
			row := make([]float64, m.Dim)
			for _, j := range adj[i] {
				w := norm[i] * norm[j]
				src := cur[j]
				for d := 0; d < m.Dim; d++ {
					row[d] += w * src[d]
				}
			}
			next[i] = row
		}
		for i := 0; i < n; i++ {
			for d := 0; d < m.Dim; d++ {
				acc[i][d] += next[i][d]
			}
		}
		cur = next
	}

	inv := 1.0 / float64(m.Layers+1)
	for i := range acc {
		for d := range acc[i] {
			acc[i][d] *= inv
		}
	}

	m.propFor = edges
	m.final = acc
	return acc
}

var _ PropagationModel = (*LightGCN)(nil)
