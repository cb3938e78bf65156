// Package model 实现图传播打分模型的抽象与 LightGCN 推理实现。
package model

import "github.com/cop-usthb/e-learning-platform/graph"

// PropagationModel 是图传播模型的最小抽象：给定交互图、用户节点与候选
// 节点集合，返回按学习到的亲和度降序排列的前 k 个候选节点。
// 具体实现可以是本地推理（LightGCN）或远程服务。
type PropagationModel interface {
	Name() string

	TopK(edges *graph.EdgeSet, userNode int, candidates []int, k int) ([]int, error)
}
