// Package service 编排混合推荐链路：启动期能力计算、按请求构建 Pipeline、
// 结果组装、HTTP API。
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/cop-usthb/e-learning-platform/config"
	"github.com/cop-usthb/e-learning-platform/core"
	"github.com/cop-usthb/e-learning-platform/embedding"
	"github.com/cop-usthb/e-learning-platform/filter"
	"github.com/cop-usthb/e-learning-platform/graph"
	"github.com/cop-usthb/e-learning-platform/index"
	"github.com/cop-usthb/e-learning-platform/model"
	"github.com/cop-usthb/e-learning-platform/pipeline"
	"github.com/cop-usthb/e-learning-platform/recall"
	"github.com/cop-usthb/e-learning-platform/rerank"
)

// Request 是一次推荐请求。
type Request struct {
	UserID string
	Domain core.Domain

	// K 是每个召回源的 top-k，最终结果最多 2K 条；<= 0 时取默认值
	K int

	// Lambda 是 MMR 权衡参数，取 [0,1]；nil 或越界时取默认值。
	// 用指针区分"没带"和显式的 0（纯多样性是合法请求）
	Lambda *float64
}

// Capabilities 是两个打分器的能力状态，启动时计算一次。
type Capabilities struct {
	Graph   core.Capability
	Content core.Capability
}

// DisabledReasons 返回被禁用能力的描述列表（用于降级响应头与日志）。
func (c Capabilities) DisabledReasons() []string {
	var out []string
	if !c.Graph.OK() {
		out = append(out, "graph: "+c.Graph.Reason)
	}
	if !c.Content.OK() {
		out = append(out, "content: "+c.Content.Reason)
	}
	return out
}

// Options 是 Recommender 的构建参数。
type Options struct {
	// Catalog 是文档库；为 nil 时图召回与已购过滤降级
	Catalog core.CatalogStore

	// Cache 是可选的结果缓存；TTLSeconds 是缓存过期时间（秒）
	Cache      core.Store
	TTLSeconds int

	// Tables 是四张特征表，任意一张可为 nil
	Tables embedding.Tables

	// ModelArtifact 是 LightGCN 权重文件路径，为空时图召回禁用
	ModelArtifact string
	EmbeddingDim  int
	NumLayers     int

	// FilterExpr 是可选的 CEL 排除表达式
	FilterExpr string

	// Pipeline 是可选的自定义链路节点配置；为空时用内置默认链路。
	// 构建失败只告警并回退默认链路，不影响启动
	Pipeline []pipeline.NodeConfig

	DefaultK      int
	DefaultLambda float64

	Logger zerolog.Logger
}

// Recommender 持有全部进程级只读状态。启动后并发请求共享，无互斥。
type Recommender struct {
	catalog core.CatalogStore
	cache   core.Store
	ttl     int

	space     *index.Space
	edges     *graph.EdgeSet
	projector *embedding.Projector
	model     model.PropagationModel

	caps       Capabilities
	filterExpr string
	custom     *pipeline.Pipeline

	defaultK      int
	defaultLambda float64

	logger zerolog.Logger
}

// New 构建 Recommender：加载目录、建实体索引和交互图、缓存物品嵌入、
// 加载传播模型权重，并把每一步的失败折算成对应能力的禁用而不是错误。
func New(ctx context.Context, opts Options) *Recommender {
	if opts.DefaultK <= 0 {
		opts.DefaultK = 5
	}
	if opts.DefaultLambda <= 0 || opts.DefaultLambda > 1 {
		opts.DefaultLambda = 0.7
	}
	if opts.EmbeddingDim <= 0 {
		opts.EmbeddingDim = 64
	}
	if opts.NumLayers <= 0 {
		opts.NumLayers = 3
	}
	logger := opts.Logger

	r := &Recommender{
		catalog:       opts.Catalog,
		cache:         opts.Cache,
		ttl:           opts.TTLSeconds,
		filterExpr:    opts.FilterExpr,
		defaultK:      opts.DefaultK,
		defaultLambda: opts.DefaultLambda,
		logger:        logger,
	}

	var (
		users       []core.UserRecord
		courses     []core.CourseRecord
		articles    []core.ArticleRecord
		engagements []core.ArticleEngagement
		catalogErr  error
	)
	if opts.Catalog == nil {
		catalogErr = fmt.Errorf("catalog not configured")
	} else {
		users, catalogErr = opts.Catalog.ListUsers(ctx)
		if catalogErr == nil {
			courses, catalogErr = opts.Catalog.ListCourses(ctx)
		}
		if catalogErr == nil {
			articles, catalogErr = opts.Catalog.ListArticles(ctx)
		}
		if catalogErr == nil {
			engagements, catalogErr = opts.Catalog.ListEngagements(ctx)
		}
	}

	userIDs := make([]string, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}
	courseIDs := make([]string, 0, len(courses))
	for _, c := range courses {
		courseIDs = append(courseIDs, c.ID)
	}
	articleIDs := make([]string, 0, len(articles))
	for _, a := range articles {
		articleIDs = append(articleIDs, a.ID)
	}

	r.space = index.Build(userIDs, courseIDs, articleIDs)
	r.edges = (&graph.Builder{Space: r.space, Logger: logger}).Build(users, engagements, articles)
	r.projector = embedding.NewProjector(opts.EmbeddingDim, opts.Tables, logger)

	r.caps.Graph = r.initGraphCapability(opts, catalogErr)
	r.caps.Content = r.initContentCapability(opts.Tables)
	r.custom = r.buildCustomPipeline(opts.Pipeline)

	for _, reason := range r.caps.DisabledReasons() {
		logger.Warn().Str("capability", reason).Msg("scorer disabled")
	}
	return r
}

func (r *Recommender) initGraphCapability(opts Options, catalogErr error) core.Capability {
	if catalogErr != nil {
		return core.Disabled("catalog unavailable: " + catalogErr.Error())
	}
	if r.space.NumUsers() == 0 {
		return core.Disabled("no users indexed")
	}
	if opts.ModelArtifact == "" {
		return core.Disabled("model artifact not configured")
	}
	m, err := model.LoadLightGCN(opts.ModelArtifact, r.space.TotalNodes(), opts.EmbeddingDim, opts.NumLayers)
	if err != nil {
		return core.Disabled("model artifact load failed: " + err.Error())
	}
	r.model = m
	return core.Available()
}

func (r *Recommender) initContentCapability(tabs embedding.Tables) core.Capability {
	if tabs.UserCourse == nil && tabs.UserArticle == nil {
		return core.Disabled("no user feature tables")
	}
	if !r.projector.HasItems(core.DomainCourse) && !r.projector.HasItems(core.DomainArticle) {
		return core.Disabled("no item feature tables")
	}
	return core.Available()
}

// buildCustomPipeline 把配置里的节点列表装配成链路，复用启动期构建的
// 索引/图/模型/投影器。构建失败只告警并回退内置默认链路。
func (r *Recommender) buildCustomPipeline(nodes []pipeline.NodeConfig) *pipeline.Pipeline {
	if len(nodes) == 0 {
		return nil
	}
	factory := config.Factory(&config.Runtime{
		Space:     r.space,
		Edges:     r.edges,
		Model:     r.model,
		Projector: r.projector,
	})
	var cfg pipeline.Config
	cfg.Pipeline.Name = "custom"
	cfg.Pipeline.Nodes = nodes
	p, err := cfg.BuildPipeline(factory)
	if err != nil {
		r.logger.Warn().Err(err).Msg("pipeline config invalid, falling back to default chain")
		return nil
	}
	r.logger.Info().Int("nodes", len(p.Nodes)).Msg("configured pipeline loaded")
	return p
}

// Capabilities 返回启动时计算的能力状态。
func (r *Recommender) Capabilities() Capabilities { return r.caps }

// Recommend 执行一次混合推荐。
//
// 失败语义：非法输入返回错误；链路内任何意外 panic 被兜底成空列表。
// 空列表是合法响应（能力全禁用、无相关物品都会出现）。
func (r *Recommender) Recommend(ctx context.Context, req Request) (recs []core.Recommendation, err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error().Interface("panic", p).Str("user", req.UserID).Msg("recommend panicked, degrading to empty result")
			recs = []core.Recommendation{}
			err = nil
		}
	}()

	if req.UserID == "" {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput, "user_id is required")
	}
	if req.Domain != core.DomainCourse && req.Domain != core.DomainArticle {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput, fmt.Sprintf("unknown domain %q", req.Domain))
	}

	k := req.K
	if k <= 0 {
		k = r.defaultK
	}
	lambda := r.defaultLambda
	lambdaSet := req.Lambda != nil && *req.Lambda >= 0 && *req.Lambda <= 1
	if lambdaSet {
		lambda = *req.Lambda
	}

	cacheKey := fmt.Sprintf("rec:v1:%s:%s:%d:%g", req.UserID, req.Domain, k, lambda)
	if cached, ok := r.cacheGet(ctx, cacheKey); ok {
		return cached, nil
	}

	rctx := &core.RecommendContext{
		UserID: req.UserID,
		Domain: req.Domain,
		K:      k,
		Params: map[string]any{},
	}
	// 只有请求显式带了 lambda 才写进上下文，配置链路里节点自带的值不被覆盖
	if lambdaSet {
		rctx.Lambda = &lambda
	}
	r.preloadPurchased(ctx, rctx)

	items, runErr := r.buildPipeline(lambda, k).Run(ctx, rctx, nil)
	if runErr != nil {
		r.logger.Error().Err(runErr).Str("user", req.UserID).Msg("pipeline failed, degrading to empty result")
		return []core.Recommendation{}, nil
	}

	recs = r.assemble(ctx, rctx, items)
	r.cacheSet(ctx, cacheKey, recs)
	return recs, nil
}

func (r *Recommender) buildPipeline(lambda float64, k int) *pipeline.Pipeline {
	if r.custom != nil {
		return r.custom
	}

	var sources []recall.Source
	if r.caps.Graph.OK() {
		sources = append(sources, &recall.GraphRecall{
			Model: r.model,
			Space: r.space,
			Edges: r.edges,
			TopK:  k,
		})
	}
	if r.caps.Content.OK() {
		sources = append(sources, &recall.ContentRecall{
			Projector: r.projector,
			TopK:      k,
		})
	}

	filters := []filter.Filter{&filter.PurchasedFilter{}}
	if r.filterExpr != "" {
		filters = append(filters, &filter.ExprFilter{Expr: r.filterExpr})
	}

	return &pipeline.Pipeline{Nodes: []pipeline.Node{
		&recall.Fanout{Sources: sources},
		&filter.FilterNode{Filters: filters},
		&rerank.MMRNode{Projector: r.projector, Lambda: lambda, K: 2 * k},
	}}
}

// preloadPurchased 把该用户的已购课程 ID 预置进请求参数，供已购过滤器使用。
func (r *Recommender) preloadPurchased(ctx context.Context, rctx *core.RecommendContext) {
	if rctx.Domain != core.DomainCourse || r.catalog == nil {
		return
	}
	u, err := r.catalog.GetUser(ctx, rctx.UserID)
	if err != nil {
		r.logger.Debug().Err(err).Str("user", rctx.UserID).Msg("purchased courses unavailable")
		return
	}
	rctx.Params["purchased_course_ids"] = u.PurchasedCourseIDs()
}

// assemble 把 Pipeline 输出组装成对外记录：补标题、渲染溯源、按分数稳定降序。
func (r *Recommender) assemble(ctx context.Context, rctx *core.RecommendContext, items []*core.Item) []core.Recommendation {
	out := make([]core.Recommendation, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, core.Recommendation{
			ID:     it.ID,
			Title:  r.title(ctx, rctx.Domain, it.ID),
			Score:  it.Score,
			Method: r.method(it),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func (r *Recommender) title(ctx context.Context, domain core.Domain, id string) string {
	if r.catalog != nil {
		var (
			title string
			err   error
		)
		if domain == core.DomainCourse {
			title, err = r.catalog.CourseTitle(ctx, id)
		} else {
			title, err = r.catalog.ArticleTitle(ctx, id)
		}
		if err == nil {
			return title
		}
		if !core.IsNotFound(err) {
			r.logger.Debug().Err(err).Str("id", id).Msg("title lookup failed")
		}
	}
	if domain == core.DomainCourse {
		return "Unknown Course " + id
	}
	return "Unknown Article " + id
}

// method 把溯源标签渲染成对外的方法名。
// 标签缺失意味着上游不变量被破坏，记 WARN 并落 "unknown"。
func (r *Recommender) method(it *core.Item) string {
	lbl, ok := it.GetLabel("recall_source")
	if !ok || lbl.Value == "" {
		r.logger.Warn().Str("id", it.ID).Msg("item missing recall_source label")
		return "unknown"
	}
	return strings.ReplaceAll(lbl.Value, "|", " + ")
}

func (r *Recommender) cacheGet(ctx context.Context, key string) ([]core.Recommendation, bool) {
	if r.cache == nil {
		return nil, false
	}
	raw, err := r.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var recs []core.Recommendation
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, false
	}
	return recs, true
}

func (r *Recommender) cacheSet(ctx context.Context, key string, recs []core.Recommendation) {
	if r.cache == nil {
		return
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, raw, r.ttl); err != nil {
		r.logger.Debug().Err(err).Msg("result cache write failed")
	}
}
