package recall

import (
	"context"
	"errors"
	"testing"

	"github.com/cop-usthb/e-learning-platform/core"
	"github.com/cop-usthb/e-learning-platform/graph"
	"github.com/cop-usthb/e-learning-platform/index"
)

// fakeModel 按候选顺序返回前 k 个节点，并记录收到的输入。
type fakeModel struct {
	gotUser       int
	gotCandidates []int
	err           error
}

func (m *fakeModel) Name() string { return "model.fake" }

func (m *fakeModel) TopK(_ *graph.EdgeSet, userNode int, candidates []int, k int) ([]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.gotUser = userNode
	m.gotCandidates = candidates
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}

func testSpace() *index.Space {
	return index.Build(
		[]string{"u1", "u2"},
		[]string{"c1", "c2", "c3"},
		[]string{"a1", "a2"},
	)
}

func TestGraphRecallCourseDomain(t *testing.T) {
	space := testSpace()
	m := &fakeModel{}
	r := &GraphRecall{Model: m, Space: space, Edges: &graph.EdgeSet{}, TopK: 5}

	rctx := &core.RecommendContext{UserID: "u2", Domain: core.DomainCourse, K: 2}
	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}

	if m.gotUser != 1 {
		t.Errorf("user node = %d, want 1", m.gotUser)
	}
	// 候选必须是课程区块的全部节点索引
	wantCands := []int{2, 3, 4}
	if len(m.gotCandidates) != len(wantCands) {
		t.Fatalf("candidates = %v, want %v", m.gotCandidates, wantCands)
	}
	for i, c := range wantCands {
		if m.gotCandidates[i] != c {
			t.Fatalf("candidates = %v, want %v", m.gotCandidates, wantCands)
		}
	}

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != "c1" || items[1].ID != "c2" {
		t.Errorf("got %s, %s, want c1, c2", items[0].ID, items[1].ID)
	}
	if lbl, ok := items[0].GetLabel("recall_source"); !ok || lbl.Value != "graph" {
		t.Errorf("recall_source = %+v, want graph", lbl)
	}
}

func TestGraphRecallArticleDomain(t *testing.T) {
	space := testSpace()
	r := &GraphRecall{Model: &fakeModel{}, Space: space, Edges: &graph.EdgeSet{}, TopK: 5}

	rctx := &core.RecommendContext{UserID: "u1", Domain: core.DomainArticle, K: 10}
	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if len(items) != 2 || items[0].ID != "a1" || items[1].ID != "a2" {
		t.Fatalf("got %v items, want articles a1, a2", len(items))
	}
}

func TestGraphRecallSoftFailures(t *testing.T) {
	space := testSpace()

	tests := []struct {
		name string
		r    *GraphRecall
		rctx *core.RecommendContext
	}{
		{
			"unknown user",
			&GraphRecall{Model: &fakeModel{}, Space: space, Edges: &graph.EdgeSet{}},
			&core.RecommendContext{UserID: "ghost", Domain: core.DomainCourse, K: 3},
		},
		{
			"nil model",
			&GraphRecall{Space: space, Edges: &graph.EdgeSet{}},
			&core.RecommendContext{UserID: "u1", Domain: core.DomainCourse, K: 3},
		},
		{
			"model error",
			&GraphRecall{Model: &fakeModel{err: errors.New("boom")}, Space: space, Edges: &graph.EdgeSet{}},
			&core.RecommendContext{UserID: "u1", Domain: core.DomainCourse, K: 3},
		},
		{
			"empty domain block",
			&GraphRecall{Model: &fakeModel{}, Space: index.Build([]string{"u1"}, nil, nil), Edges: &graph.EdgeSet{}},
			&core.RecommendContext{UserID: "u1", Domain: core.DomainCourse, K: 3},
		},
		{
			"unknown domain",
			&GraphRecall{Model: &fakeModel{}, Space: space, Edges: &graph.EdgeSet{}},
			&core.RecommendContext{UserID: "u1", Domain: core.Domain("video"), K: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := tt.r.Recall(context.Background(), tt.rctx)
			if err != nil {
				t.Fatalf("soft failure must not return error, got %v", err)
			}
			if len(items) != 0 {
				t.Errorf("got %d items, want 0", len(items))
			}
		})
	}
}
