package store

import (
	"context"
	"testing"
	"time"

	"github.com/cop-usthb/e-learning-platform/core"
)

func TestNormalizeArticleID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"7.12", "07.12"},
		{"71.5", "071.5"},
		{"712", "712"},
		{"8.12", "8.12"},
		{"07.12", "07.12"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeArticleID(tt.in); got != tt.want {
			t.Errorf("NormalizeArticleID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	if _, err := s.Get(ctx, "missing"); !core.IsNotFound(err) {
		t.Errorf("missing key should be NOT_FOUND, got %v", err)
	}

	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get = %q, %v", got, err)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !core.IsNotFound(err) {
		t.Errorf("deleted key should be NOT_FOUND, got %v", err)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	if err := s.Set(ctx, "k", []byte("v"), 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("fresh key should exist: %v", err)
	}

	// 直接把过期时间改到过去，避免真实等待
	s.mu.Lock()
	past := time.Now().Add(-time.Second)
	s.data["k"].ttl = &past
	s.mu.Unlock()

	if _, err := s.Get(ctx, "k"); !core.IsNotFound(err) {
		t.Errorf("expired key should be NOT_FOUND, got %v", err)
	}
}

func testCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		Users: []core.UserRecord{
			{
				ID:   "u1",
				Name: "Lina",
				Courses: []core.CoursePurchase{
					{CourseID: "c1", Purchased: true, Rating: 4},
					{CourseID: "c2", Purchased: false},
				},
			},
		},
		Courses: []core.CourseRecord{
			{ID: "c1", Title: "Algorithms"},
			{ID: "c2"},
		},
		Articles: []core.ArticleRecord{
			{ID: "07.12", LooseID: "7.12", Title: "Graphs in practice"},
			{ID: "a2", LooseID: "a2"},
		},
	}
}

func TestMemoryCatalogTitles(t *testing.T) {
	ctx := context.Background()
	cat := testCatalog()

	title, err := cat.CourseTitle(ctx, "c1")
	if err != nil || title != "Algorithms" {
		t.Errorf("CourseTitle(c1) = %q, %v", title, err)
	}

	// 文档存在但无标题字段
	title, err = cat.CourseTitle(ctx, "c2")
	if err != nil || title != "Course c2" {
		t.Errorf("CourseTitle(c2) = %q, %v", title, err)
	}

	if _, err := cat.CourseTitle(ctx, "ghost"); !core.IsNotFound(err) {
		t.Errorf("missing course should be NOT_FOUND, got %v", err)
	}

	// 文章标题查找要经过 ID 规范化
	title, err = cat.ArticleTitle(ctx, "7.12")
	if err != nil || title != "Graphs in practice" {
		t.Errorf("ArticleTitle(7.12) = %q, %v", title, err)
	}
}

func TestMemoryCatalogGetUser(t *testing.T) {
	ctx := context.Background()
	cat := testCatalog()

	u, err := cat.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	purchased := u.PurchasedCourseIDs()
	if len(purchased) != 1 || purchased[0] != "c1" {
		t.Errorf("PurchasedCourseIDs = %v, want [c1]", purchased)
	}

	if _, err := cat.GetUser(ctx, "ghost"); !core.IsNotFound(err) {
		t.Errorf("missing user should be NOT_FOUND, got %v", err)
	}
}
