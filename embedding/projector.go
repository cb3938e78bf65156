package embedding

import (
	"github.com/rs/zerolog"

	"github.com/cop-usthb/e-learning-platform/core"
	"github.com/cop-usthb/e-learning-platform/feature"
	"github.com/cop-usthb/e-learning-platform/pkg/vectormath"
)

// 实体类型名，同时是投影权重的播种因子。
const (
	KindUserCourse  = "user_course"
	KindUserArticle = "user_article"
	KindCourse      = "course"
	KindArticle     = "article"
)

// Projector 持有四张特征表的投影与物品嵌入缓存，进程级只读状态：
// 启动时构建一次，之后并发请求共享读取。
//
// 某张特征表缺失时对应投影不存在，依赖它的打分路径返回空结果而非报错。
type Projector struct {
	Dim int

	userCourse  *Projection
	userArticle *Projection
	course      *Projection
	article     *Projection

	userCourseTab  *feature.Table
	userArticleTab *feature.Table

	// 物品嵌入缓存：启动时对目录全量投影一次，ID 键控，只读。
	// order 保持特征表行序，是内容打分并列时的遍历顺序。
	courseEmb    map[string][]float64
	courseOrder  []string
	articleEmb   map[string][]float64
	articleOrder []string
}

// Tables 是 Projector 的输入：四张特征表，任意一张可为 nil（降级）。
type Tables struct {
	UserCourse  *feature.Table
	UserArticle *feature.Table
	Course      *feature.Table
	Article     *feature.Table
}

// NewProjector 构建投影器并预计算全部物品嵌入。
func NewProjector(dim int, tabs Tables, logger zerolog.Logger) *Projector {
	p := &Projector{
		Dim:            dim,
		userCourseTab:  tabs.UserCourse,
		userArticleTab: tabs.UserArticle,
		courseEmb:      make(map[string][]float64),
		articleEmb:     make(map[string][]float64),
	}

	if tabs.UserCourse != nil {
		p.userCourse = NewProjection(KindUserCourse, tabs.UserCourse.Width(), dim)
	}
	if tabs.UserArticle != nil {
		p.userArticle = NewProjection(KindUserArticle, tabs.UserArticle.Width(), dim)
	}
	if tabs.Course != nil {
		p.course = NewProjection(KindCourse, tabs.Course.Width(), dim)
		for _, id := range tabs.Course.IDs() {
			row, _ := tabs.Course.Row(id)
			p.courseEmb[id] = p.course.Apply(row)
			p.courseOrder = append(p.courseOrder, id)
		}
		logger.Info().Int("courses", len(p.courseEmb)).Msg("course embeddings cached")
	}
	if tabs.Article != nil {
		p.article = NewProjection(KindArticle, tabs.Article.Width(), dim)
		for _, id := range tabs.Article.IDs() {
			row, _ := tabs.Article.Row(id)
			p.articleEmb[id] = p.article.Apply(row)
			p.articleOrder = append(p.articleOrder, id)
		}
		logger.Info().Int("articles", len(p.articleEmb)).Msg("article embeddings cached")
	}
	return p
}

// UserEmbedding 按需计算统一用户嵌入：对该用户可用的各特征表投影
// 取逐元素均值（两表都有取均值，只有一表用该表，都没有返回 false）。
func (p *Projector) UserEmbedding(userID string) ([]float64, bool) {
	var vecs [][]float64
	if p.userCourse != nil && p.userCourseTab != nil {
		if row, ok := p.userCourseTab.Row(userID); ok {
			vecs = append(vecs, p.userCourse.Apply(row))
		}
	}
	if p.userArticle != nil && p.userArticleTab != nil {
		if row, ok := p.userArticleTab.Row(userID); ok {
			vecs = append(vecs, p.userArticle.Apply(row))
		}
	}
	if len(vecs) == 0 {
		return nil, false
	}
	return vectormath.Mean(vecs...), true
}

// ItemEmbedding 返回某物品的缓存嵌入。
func (p *Projector) ItemEmbedding(domain core.Domain, id string) ([]float64, bool) {
	switch domain {
	case core.DomainCourse:
		v, ok := p.courseEmb[id]
		return v, ok
	case core.DomainArticle:
		v, ok := p.articleEmb[id]
		return v, ok
	}
	return nil, false
}

// ItemOrder 返回某领域物品嵌入的稳定遍历顺序（特征表行序）。
func (p *Projector) ItemOrder(domain core.Domain) []string {
	switch domain {
	case core.DomainCourse:
		return p.courseOrder
	case core.DomainArticle:
		return p.articleOrder
	}
	return nil
}

// HasItems 报告某领域是否存在物品嵌入缓存。
func (p *Projector) HasItems(domain core.Domain) bool {
	return len(p.ItemOrder(domain)) > 0
}
