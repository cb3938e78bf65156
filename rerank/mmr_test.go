package rerank

import (
	"context"
	"math"
	"testing"

	"github.com/cop-usthb/e-learning-platform/core"
)

type fakeVectors struct {
	users map[string][]float64
	items map[string][]float64
}

func (f *fakeVectors) UserEmbedding(id string) ([]float64, bool) {
	v, ok := f.users[id]
	return v, ok
}

func (f *fakeVectors) ItemEmbedding(_ core.Domain, id string) ([]float64, bool) {
	v, ok := f.items[id]
	return v, ok
}

func (f *fakeVectors) HasItems(core.Domain) bool {
	return len(f.items) > 0
}

func lambdaArg(v float64) *float64 { return &v }

// 构造三个单位向量 a/b/c 和用户向量 u，满足：
//
//	dot(u,a)=0.9  dot(u,b)=0.8  dot(u,c)=0.85
//	cos(a,b)=0.1  cos(a,c)=0.95
func tradeoffVectors() *fakeVectors {
	b2 := math.Sqrt(1 - 0.1*0.1)
	c3 := math.Sqrt(1 - 0.95*0.95)

	a := []float64{1, 0, 0}
	b := []float64{0.1, b2, 0}
	c := []float64{0.95, 0, c3}
	u := []float64{0.9, (0.8 - 0.1*0.9) / b2, (0.85 - 0.95*0.9) / c3}

	return &fakeVectors{
		users: map[string][]float64{"u1": u},
		items: map[string][]float64{"A": a, "B": b, "C": c},
	}
}

func itemIDs(items []*core.Item) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

func TestMMRTradeoff(t *testing.T) {
	// A 相关性最高先入选；C 相关性高于 B 但与 A 高度相似，
	// 第二轮 mmr(B)=0.7*0.8-0.3*0.1=0.53 > mmr(C)=0.7*0.85-0.3*0.95=0.31
	node := &MMRNode{Projector: tradeoffVectors(), Lambda: 0.7, K: 2}
	rctx := &core.RecommendContext{UserID: "u1", Domain: core.DomainCourse}

	items := []*core.Item{core.NewItem("A"), core.NewItem("B"), core.NewItem("C")}
	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	got := itemIDs(out)
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("got %v, want [A B]", got)
	}
	if math.Abs(out[0].Score-0.9) > 1e-9 {
		t.Errorf("first score = %v, want relevance 0.9", out[0].Score)
	}
	if math.Abs(out[1].Score-0.53) > 1e-9 {
		t.Errorf("second score = %v, want mmr 0.53", out[1].Score)
	}
	if lbl, ok := out[0].GetLabel("rerank"); !ok || lbl.Value != "mmr" {
		t.Errorf("rerank label = %+v, want mmr", lbl)
	}
}

func TestMMRPureRelevance(t *testing.T) {
	// lambda=1 时退化为按相关性排序
	node := &MMRNode{Projector: tradeoffVectors(), Lambda: 1, K: 3}
	rctx := &core.RecommendContext{UserID: "u1", Domain: core.DomainCourse}

	items := []*core.Item{core.NewItem("A"), core.NewItem("B"), core.NewItem("C")}
	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	got := itemIDs(out)
	want := []string{"A", "C", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestMMRPureNovelty(t *testing.T) {
	// lambda=0 时只看与已选集合的相似度，与 A 最不相似的 B 排第二
	node := &MMRNode{Projector: tradeoffVectors(), Lambda: 0, K: 3}
	rctx := &core.RecommendContext{UserID: "u1", Domain: core.DomainCourse}

	items := []*core.Item{core.NewItem("A"), core.NewItem("B"), core.NewItem("C")}
	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	got := itemIDs(out)
	if got[0] != "A" || got[1] != "B" || got[2] != "C" {
		t.Fatalf("got %v, want [A B C]", got)
	}
}

func TestMMRLambdaFromContext(t *testing.T) {
	// rctx.Lambda 优先于节点配置；节点配置的 lambda=1 会把 C 排第二
	node := &MMRNode{Projector: tradeoffVectors(), Lambda: 1, K: 2}
	rctx := &core.RecommendContext{UserID: "u1", Domain: core.DomainCourse, Lambda: lambdaArg(0.7)}

	items := []*core.Item{core.NewItem("A"), core.NewItem("B"), core.NewItem("C")}
	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := itemIDs(out); got[1] != "B" {
		t.Fatalf("got %v, want B second under lambda 0.7", got)
	}
}

func TestMMRExplicitZeroLambdaFromContext(t *testing.T) {
	// 请求显式带 lambda=0 时生效，不回退节点配置：
	// 纯多样性下 B 排第二（与 A 最不相似），节点配置的 lambda=1 会排 C
	node := &MMRNode{Projector: tradeoffVectors(), Lambda: 1, K: 3}
	rctx := &core.RecommendContext{UserID: "u1", Domain: core.DomainCourse, Lambda: lambdaArg(0)}

	items := []*core.Item{core.NewItem("A"), core.NewItem("B"), core.NewItem("C")}
	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := itemIDs(out); got[0] != "A" || got[1] != "B" || got[2] != "C" {
		t.Fatalf("got %v, want [A B C] under explicit lambda 0", got)
	}
}

func TestMMRKLargerThanCandidates(t *testing.T) {
	node := &MMRNode{Projector: tradeoffVectors(), Lambda: 0.7, K: 10}
	rctx := &core.RecommendContext{UserID: "u1", Domain: core.DomainCourse}

	items := []*core.Item{core.NewItem("A"), core.NewItem("B"), core.NewItem("C")}
	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d items, want all 3", len(out))
	}

	seen := make(map[string]bool)
	for _, it := range out {
		if seen[it.ID] {
			t.Fatalf("duplicate item %s", it.ID)
		}
		seen[it.ID] = true
	}
}

func TestMMRDefaultKFromContext(t *testing.T) {
	// K 未配置时取 2*rctx.K
	node := &MMRNode{Projector: tradeoffVectors(), Lambda: 0.7}
	rctx := &core.RecommendContext{UserID: "u1", Domain: core.DomainCourse, K: 1}

	items := []*core.Item{core.NewItem("A"), core.NewItem("B"), core.NewItem("C")}
	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d items, want 2", len(out))
	}
}

func TestMMRNoUserEmbedding(t *testing.T) {
	// 拿不到用户向量时原样返回
	node := &MMRNode{Projector: tradeoffVectors(), Lambda: 0.7, K: 2}
	rctx := &core.RecommendContext{UserID: "missing", Domain: core.DomainCourse}

	items := []*core.Item{core.NewItem("C"), core.NewItem("A")}
	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := itemIDs(out); got[0] != "C" || got[1] != "A" {
		t.Fatalf("got %v, want unchanged [C A]", got)
	}
}

func TestMMRDropsItemsWithoutEmbedding(t *testing.T) {
	node := &MMRNode{Projector: tradeoffVectors(), Lambda: 0.7, K: 10}
	rctx := &core.RecommendContext{UserID: "u1", Domain: core.DomainCourse}

	items := []*core.Item{core.NewItem("A"), core.NewItem("ghost"), core.NewItem("B")}
	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	for _, it := range out {
		if it.ID == "ghost" {
			t.Fatal("item without embedding should be dropped")
		}
	}
	if len(out) != 2 {
		t.Fatalf("got %d items, want 2", len(out))
	}
}

func TestMMRAllCandidatesWithoutEmbedding(t *testing.T) {
	// 物品向量缓存存在但所有候选都查不到向量：丢光就是空选集，
	// 不能把无法比较的候选原样放回
	node := &MMRNode{Projector: tradeoffVectors(), Lambda: 0.7, K: 2}
	rctx := &core.RecommendContext{UserID: "u1", Domain: core.DomainCourse}

	items := []*core.Item{core.NewItem("ghost1"), core.NewItem("ghost2")}
	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("got %v, want empty selection", itemIDs(out))
	}
}

func TestMMRNoItemCacheForDomain(t *testing.T) {
	// 该领域根本没有物品向量缓存是降级场景：跳过重排，原样返回
	vecs := tradeoffVectors()
	vecs.items = nil
	node := &MMRNode{Projector: vecs, Lambda: 0.7, K: 2}
	rctx := &core.RecommendContext{UserID: "u1", Domain: core.DomainCourse}

	items := []*core.Item{core.NewItem("C"), core.NewItem("A")}
	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := itemIDs(out); len(got) != 2 || got[0] != "C" || got[1] != "A" {
		t.Fatalf("got %v, want unchanged [C A]", got)
	}
}

func TestTopNNode(t *testing.T) {
	items := []*core.Item{core.NewItem("a"), core.NewItem("b"), core.NewItem("c")}

	tests := []struct {
		name string
		n    int
		rctx *core.RecommendContext
		want int
	}{
		{"truncates", 2, nil, 2},
		{"larger than input", 10, nil, 3},
		{"zero falls back to rctx.K", 0, &core.RecommendContext{K: 1}, 1},
		{"zero without rctx keeps all", 0, nil, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopNNode{N: tt.n}
			out, err := node.Process(context.Background(), tt.rctx, items)
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			if len(out) != tt.want {
				t.Errorf("got %d items, want %d", len(out), tt.want)
			}
		})
	}
}
