// Package index 实现实体索引：为全部用户、课程、文章分配共享索引空间中
// 稳定且唯一的整数位置。空间按 users | courses | articles 三个连续区块排布，
// 图传播模型与交互图都直接使用这套索引。
package index

// Space 是一次性构建、之后只读的实体索引空间。
type Space struct {
	users    []string
	courses  []string
	articles []string

	userIdx    map[string]int
	courseIdx  map[string]int
	articleIdx map[string]int
}

// Build 按 users | courses | articles 的固定顺序分配索引。
// 任一输入为空不是错误：对应领域的打分器会被降级为恒返回空。
func Build(userIDs, courseIDs, articleIDs []string) *Space {
	s := &Space{
		users:      append([]string(nil), userIDs...),
		courses:    append([]string(nil), courseIDs...),
		articles:   append([]string(nil), articleIDs...),
		userIdx:    make(map[string]int, len(userIDs)),
		courseIdx:  make(map[string]int, len(courseIDs)),
		articleIdx: make(map[string]int, len(articleIDs)),
	}
	for i, id := range s.users {
		s.userIdx[id] = i
	}
	off := len(s.users)
	for i, id := range s.courses {
		s.courseIdx[id] = off + i
	}
	off += len(s.courses)
	for i, id := range s.articles {
		s.articleIdx[id] = off + i
	}
	return s
}

func (s *Space) NumUsers() int    { return len(s.users) }
func (s *Space) NumCourses() int  { return len(s.courses) }
func (s *Space) NumArticles() int { return len(s.articles) }

// TotalNodes 返回索引空间的总节点数。
func (s *Space) TotalNodes() int {
	return len(s.users) + len(s.courses) + len(s.articles)
}

// CourseOffset 返回课程区块的起始索引。
func (s *Space) CourseOffset() int { return len(s.users) }

// ArticleOffset 返回文章区块的起始索引。
func (s *Space) ArticleOffset() int { return len(s.users) + len(s.courses) }

// UserIndex 返回用户在共享空间中的索引。
func (s *Space) UserIndex(id string) (int, bool) {
	idx, ok := s.userIdx[id]
	return idx, ok
}

// CourseIndex 返回课程在共享空间中的索引。
func (s *Space) CourseIndex(id string) (int, bool) {
	idx, ok := s.courseIdx[id]
	return idx, ok
}

// ArticleIndex 返回文章在共享空间中的索引。
func (s *Space) ArticleIndex(id string) (int, bool) {
	idx, ok := s.articleIdx[id]
	return idx, ok
}

// CourseID 把共享空间索引映射回课程 ID。
func (s *Space) CourseID(idx int) (string, bool) {
	i := idx - s.CourseOffset()
	if i < 0 || i >= len(s.courses) {
		return "", false
	}
	return s.courses[i], true
}

// ArticleID 把共享空间索引映射回文章 ID。
func (s *Space) ArticleID(idx int) (string, bool) {
	i := idx - s.ArticleOffset()
	if i < 0 || i >= len(s.articles) {
		return "", false
	}
	return s.articles[i], true
}
