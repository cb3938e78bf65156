// Package elearning 是电商化在线学习平台的混合推荐引擎。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → ReRank）
// - 双路召回：图传播（LightGCN 推理）与内容相似（共享嵌入空间余弦）并发融合
// - MMR 重排：相关性与多样性贪心权衡，λ 可按请求调节
// - Labels-first: 召回溯源全链路透传，响应里渲染为 method 字段
// - 显式降级：每个打分器的能力在启动时计算一次，缺数据只关能力不报错
package elearning

import "github.com/cop-usthb/e-learning-platform/pipeline"

// 轻量 facade：便于直接 import 根包使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
