package core

// 原始交互记录在源系统（文档库）中是松散的动态结构。
// 这里把它们建成显式的带默认值的类型，在存储边界一次性解析完毕，
// 打分逻辑内部不再出现 "字段可能缺失" 的分支。

// 缺失字段的文档默认值。
const (
	DefaultRating   = 0.0 // 未评分课程
	DefaultProgress = 0.0 // 未开始学习
)

// CoursePurchase 是用户的一条课程交互记录。
type CoursePurchase struct {
	CourseID  string
	Purchased bool
	Progress  float64 // 缺失时为 DefaultProgress
	Rating    float64 // 缺失时为 DefaultRating
}

// UserRecord 是用户文档的强类型投影。
type UserRecord struct {
	ID        string
	Name      string
	Interests []string
	Courses   []CoursePurchase
}

// PurchasedCourseIDs 返回已购课程 ID 列表（保持文档内顺序）。
func (u *UserRecord) PurchasedCourseIDs() []string {
	out := make([]string, 0, len(u.Courses))
	for _, c := range u.Courses {
		if c.Purchased && c.CourseID != "" {
			out = append(out, c.CourseID)
		}
	}
	return out
}

// ArticleEngagement 是用户对文章的互动记录（点赞/收藏/已读三个通道）。
// 三个通道里的 ID 是源系统的松散标识，需要经文章目录解析成规范 ID。
type ArticleEngagement struct {
	UserID    string
	Likes     []string
	Favorites []string
	Read      []string
}

// UnionIDs 返回三个通道的并集（同一文章多通道触达只算一次），保持首次出现顺序。
func (e *ArticleEngagement) UnionIDs() []string {
	seen := make(map[string]struct{}, len(e.Likes)+len(e.Favorites)+len(e.Read))
	out := make([]string, 0, len(seen))
	for _, list := range [][]string{e.Likes, e.Favorites, e.Read} {
		for _, id := range list {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// CourseRecord 是课程目录条目。
type CourseRecord struct {
	ID    string
	Title string
}

// ArticleRecord 是文章目录条目。
// LooseID 是源系统在互动记录中引用文章时使用的次级标识，
// 与规范 ID（文档主键）并存；图构建时通过它把互动解析到规范 ID。
type ArticleRecord struct {
	ID      string
	LooseID string
	Title   string
}
