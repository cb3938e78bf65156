package graph

import (
	"github.com/rs/zerolog"

	"github.com/cop-usthb/e-learning-platform/core"
	"github.com/cop-usthb/e-learning-platform/index"
)

// Builder 从原始交互记录构建交互图。
//
// 边的来源有两类：
//   - 课程：用户课程列表中的每条记录产生一对 (user, course) 对称边，
//     购买类交互不去重（多次购买多条边）
//   - 文章：先对每用户的点赞/收藏/已读取并集（同一文章多通道触达只算一条），
//     再经文章目录把松散 ID 解析成规范 ID
//
// 任一端点无法在实体索引中解析时该边被静默丢弃——这是对上游数据质量的
// 容忍策略，不是错误。最终边数记入日志。
type Builder struct {
	Space  *index.Space
	Logger zerolog.Logger
}

// Build 构建边表。
func (b *Builder) Build(
	users []core.UserRecord,
	engagements []core.ArticleEngagement,
	articles []core.ArticleRecord,
) *EdgeSet {
	edges := &EdgeSet{}

	dropped := 0
	for i := range users {
		u := &users[i]
		userIdx, ok := b.Space.UserIndex(u.ID)
		if !ok {
			dropped += len(u.Courses)
			continue
		}
		for _, c := range u.Courses {
			courseIdx, ok := b.Space.CourseIndex(c.CourseID)
			if !ok {
				dropped++
				continue
			}
			edges.add(userIdx, courseIdx)
		}
	}

	// 松散文章 ID → 规范 ID 的解析表
	loose := make(map[string]string, len(articles))
	for _, a := range articles {
		if a.LooseID != "" {
			loose[a.LooseID] = a.ID
		}
	}

	for i := range engagements {
		e := &engagements[i]
		userIdx, ok := b.Space.UserIndex(e.UserID)
		if !ok {
			continue
		}
		for _, looseID := range e.UnionIDs() {
			canonical, ok := loose[looseID]
			if !ok {
				// 互动记录偶尔直接携带规范 ID
				canonical = looseID
			}
			articleIdx, ok := b.Space.ArticleIndex(canonical)
			if !ok {
				dropped++
				continue
			}
			edges.add(userIdx, articleIdx)
		}
	}

	b.Logger.Info().
		Int("edges", edges.Len()).
		Int("dropped", dropped).
		Msg("interaction graph built")
	return edges
}
