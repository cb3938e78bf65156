package core

import "context"

// CatalogStore 是文档库的领域接口：用户记录、两个目录、文章互动记录。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 领域层不依赖具体驱动（Mongo / 内存实现均可）
//
// 任何方法失败都只会降级对应能力，不会让请求整体失败。
type CatalogStore interface {
	// Name 返回存储后端名称（用于日志）
	Name() string

	// ListUsers 枚举全部用户记录（含课程购买列表与兴趣）
	ListUsers(ctx context.Context) ([]UserRecord, error)

	// GetUser 读取单个用户记录；不存在时返回 NOT_FOUND
	GetUser(ctx context.Context, userID string) (*UserRecord, error)

	// ListCourses / ListArticles 枚举目录（含标题），顺序稳定
	ListCourses(ctx context.Context) ([]CourseRecord, error)
	ListArticles(ctx context.Context) ([]ArticleRecord, error)

	// ListEngagements 枚举每用户的文章互动记录
	ListEngagements(ctx context.Context) ([]ArticleEngagement, error)

	// CourseTitle / ArticleTitle 解析物品标题；不存在时返回 NOT_FOUND
	CourseTitle(ctx context.Context, id string) (string, error)
	ArticleTitle(ctx context.Context, id string) (string, error)

	// Close 关闭连接/释放资源
	Close(ctx context.Context) error
}

// Store 是 KV 存储的领域接口，服务层用它做推荐结果缓存。
//
// 实现：
//   - store.MemoryStore（测试/开发）
//   - store.RedisStore（生产）
type Store interface {
	// Name 返回存储后端名称（用于日志）
	Name() string

	// Get 读取单个 key 的值；不存在时返回 ErrStoreNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入单个 key-value，ttl 单位秒（0 表示不过期）
	Set(ctx context.Context, key string, value []byte, ttl ...int) error

	// Delete 删除单个 key
	Delete(ctx context.Context, key string) error

	// Close 关闭连接/释放资源
	Close() error
}
