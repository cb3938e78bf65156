package recall

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cop-usthb/e-learning-platform/core"
	"github.com/cop-usthb/e-learning-platform/pkg/utils"
)

// stubSource 返回固定物品列表，带指定 recall_source 标签。
type stubSource struct {
	name   string
	source string
	ids    []string
	err    error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Recall(_ context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	items := make([]*core.Item, 0, len(s.ids))
	for _, id := range s.ids {
		it := core.NewItem(id)
		it.PutLabel("recall_source", utils.Label{Value: s.source, Source: "recall"})
		items = append(items, it)
	}
	return items, nil
}

func TestFanoutRankScores(t *testing.T) {
	n := &Fanout{Sources: []Source{
		&stubSource{name: "recall.graph", source: "graph", ids: []string{"c1", "c2", "c3"}},
	}}

	out, err := n.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d items, want 3", len(out))
	}
	for i, want := range []float64{1.0, 0.9, 0.8} {
		if math.Abs(out[i].Score-want) > 1e-9 {
			t.Errorf("score[%d] = %v, want %v", i, out[i].Score, want)
		}
	}
}

func TestFanoutMergesDuplicates(t *testing.T) {
	n := &Fanout{Sources: []Source{
		&stubSource{name: "recall.graph", source: "graph", ids: []string{"c1", "c2"}},
		&stubSource{name: "recall.content", source: "content", ids: []string{"c2", "c3"}},
	}}

	out, err := n.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d items, want 3", len(out))
	}

	byID := make(map[string]*core.Item)
	for _, it := range out {
		byID[it.ID] = it
	}

	// 双路命中保留首次出现的条目，标签合并
	dup := byID["c2"]
	if dup == nil {
		t.Fatal("c2 missing from merged results")
	}
	if lbl, _ := dup.GetLabel("recall_source"); lbl.Value != "graph|content" {
		t.Errorf("merged recall_source = %q, want graph|content", lbl.Value)
	}
	if math.Abs(dup.Score-0.9) > 1e-9 {
		t.Errorf("duplicate keeps first score, got %v want 0.9", dup.Score)
	}

	if lbl, _ := byID["c1"].GetLabel("recall_source"); lbl.Value != "graph" {
		t.Errorf("c1 recall_source = %q, want graph", lbl.Value)
	}
	if lbl, _ := byID["c3"].GetLabel("recall_source"); lbl.Value != "content" {
		t.Errorf("c3 recall_source = %q, want content", lbl.Value)
	}
}

func TestFanoutSourceErrorIsEmpty(t *testing.T) {
	// 图召回失败时只剩内容召回结果，不报错
	n := &Fanout{Sources: []Source{
		&stubSource{name: "recall.graph", source: "graph", err: errors.New("model offline")},
		&stubSource{name: "recall.content", source: "content", ids: []string{"a1", "a2"}},
	}}

	out, err := n.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d items, want 2", len(out))
	}
	if out[0].ID != "a1" || math.Abs(out[0].Score-1.0) > 1e-9 {
		t.Errorf("content-only ranks start at 1.0, got %s %v", out[0].ID, out[0].Score)
	}
}

func TestFanoutNoSources(t *testing.T) {
	n := &Fanout{}
	out, err := n.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %d items, want 0", len(out))
	}
}
