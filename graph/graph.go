// Package graph 实现交互图：从用户的课程购买与文章互动记录构建
// 实体索引空间上的无向边集，供图传播模型消费。
package graph

// EdgeSet 是交互图的边表。每条观测到的用户-物品交互产生一对对称的有向边，
// Src[i]→Dst[i]。构建完成后只读。
type EdgeSet struct {
	Src []int
	Dst []int
}

// Len 返回有向边数量（每条交互计 2）。
func (e *EdgeSet) Len() int { return len(e.Src) }

// add 追加一对对称边。
func (e *EdgeSet) add(a, b int) {
	e.Src = append(e.Src, a, b)
	e.Dst = append(e.Dst, b, a)
}

// Degrees 计算每个节点的度数。numNodes 为索引空间总节点数。
func (e *EdgeSet) Degrees(numNodes int) []int {
	deg := make([]int, numNodes)
	for _, s := range e.Src {
		if s >= 0 && s < numNodes {
			deg[s]++
		}
	}
	return deg
}

// Adjacency 构建邻接表。越界端点被忽略。
func (e *EdgeSet) Adjacency(numNodes int) [][]int {
	adj := make([][]int, numNodes)
	for i := range e.Src {
		s, d := e.Src[i], e.Dst[i]
		if s < 0 || s >= numNodes || d < 0 || d >= numNodes {
			continue
		}
		adj[s] = append(adj[s], d)
	}
	return adj
}
