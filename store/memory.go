package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cop-usthb/e-learning-platform/core"
)

// MemoryStore 是内存实现的 KV Store，用于测试/开发/原型。
// 支持 TTL（过期时间），但进程重启后数据丢失。
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*entry
}

type entry struct {
	value []byte
	ttl   *time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]*entry)}
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[key]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	if e.ttl != nil && time.Now().After(*e.ttl) {
		return nil, core.ErrStoreNotFound
	}
	return e.value, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := &entry{value: value}
	if len(ttl) > 0 && ttl[0] > 0 {
		expire := time.Now().Add(time.Duration(ttl[0]) * time.Second)
		e.ttl = &expire
	}
	m.data[key] = e
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

var _ core.Store = (*MemoryStore)(nil)

// MemoryCatalog 是内存实现的 CatalogStore，用于测试和本地开发。
// 数据在构建时一次性填入，之后只读。
type MemoryCatalog struct {
	Users       []core.UserRecord
	Courses     []core.CourseRecord
	Articles    []core.ArticleRecord
	Engagements []core.ArticleEngagement
}

func (m *MemoryCatalog) Name() string { return "memory" }

func (m *MemoryCatalog) ListUsers(_ context.Context) ([]core.UserRecord, error) {
	return m.Users, nil
}

func (m *MemoryCatalog) GetUser(_ context.Context, userID string) (*core.UserRecord, error) {
	for i := range m.Users {
		if m.Users[i].ID == userID {
			return &m.Users[i], nil
		}
	}
	return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeNotFound, fmt.Sprintf("user %s not found", userID))
}

func (m *MemoryCatalog) ListCourses(_ context.Context) ([]core.CourseRecord, error) {
	return m.Courses, nil
}

func (m *MemoryCatalog) ListArticles(_ context.Context) ([]core.ArticleRecord, error) {
	return m.Articles, nil
}

func (m *MemoryCatalog) ListEngagements(_ context.Context) ([]core.ArticleEngagement, error) {
	return m.Engagements, nil
}

func (m *MemoryCatalog) CourseTitle(_ context.Context, id string) (string, error) {
	for _, c := range m.Courses {
		if c.ID == id {
			if c.Title == "" {
				return "Course " + id, nil
			}
			return c.Title, nil
		}
	}
	return "", core.NewDomainError(core.ModuleStore, core.ErrorCodeNotFound, fmt.Sprintf("course %s not found", id))
}

func (m *MemoryCatalog) ArticleTitle(_ context.Context, id string) (string, error) {
	search := NormalizeArticleID(id)
	for _, a := range m.Articles {
		if a.ID == search || a.ID == id {
			if a.Title == "" {
				return "Article " + id, nil
			}
			return a.Title, nil
		}
	}
	return "", core.NewDomainError(core.ModuleStore, core.ErrorCodeNotFound, fmt.Sprintf("article %s not found", id))
}

func (m *MemoryCatalog) Close(_ context.Context) error { return nil }

var _ core.CatalogStore = (*MemoryCatalog)(nil)
