package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/cop-usthb/e-learning-platform/core"
)

// 文档库集合名。
const (
	colUsers       = "users"
	colEngagements = "userAR"
	colCourses     = "Course"
	colArticles    = "Articles"
)

// MongoCatalog 是 MongoDB 实现的 CatalogStore。
// 源文档是松散结构（字段可缺失、类型不统一），全部解析集中在这里，
// 出去的都是带默认值的强类型记录。
type MongoCatalog struct {
	client *mongo.Client
	db     *mongo.Database
	logger zerolog.Logger
}

// NewMongoCatalog 连接文档库并校验连通性。
func NewMongoCatalog(ctx context.Context, uri, dbName string, logger zerolog.Logger) (*MongoCatalog, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoCatalog{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}, nil
}

func (m *MongoCatalog) Name() string { return "mongo" }

func (m *MongoCatalog) ListUsers(ctx context.Context) ([]core.UserRecord, error) {
	cur, err := m.db.Collection(colUsers).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var out []core.UserRecord
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			m.logger.Warn().Err(err).Msg("skip undecodable user document")
			continue
		}
		out = append(out, decodeUser(doc))
	}
	return out, cur.Err()
}

func (m *MongoCatalog) GetUser(ctx context.Context, userID string) (*core.UserRecord, error) {
	var doc bson.M
	err := m.db.Collection(colUsers).FindOne(ctx, idFilter(userID)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeNotFound, fmt.Sprintf("user %s not found", userID))
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u := decodeUser(doc)
	return &u, nil
}

func (m *MongoCatalog) ListCourses(ctx context.Context) ([]core.CourseRecord, error) {
	cur, err := m.db.Collection(colCourses).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer cur.Close(ctx)

	var out []core.CourseRecord
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			continue
		}
		out = append(out, core.CourseRecord{
			ID:    idString(doc["_id"]),
			Title: firstString(doc, "course", "title", "name"),
		})
	}
	return out, cur.Err()
}

func (m *MongoCatalog) ListArticles(ctx context.Context) ([]core.ArticleRecord, error) {
	cur, err := m.db.Collection(colArticles).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer cur.Close(ctx)

	var out []core.ArticleRecord
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			continue
		}
		out = append(out, core.ArticleRecord{
			ID:      idString(doc["_id"]),
			LooseID: asString(doc["id"]),
			Title:   asString(doc["title"]),
		})
	}
	return out, cur.Err()
}

func (m *MongoCatalog) ListEngagements(ctx context.Context) ([]core.ArticleEngagement, error) {
	cur, err := m.db.Collection(colEngagements).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list engagements: %w", err)
	}
	defer cur.Close(ctx)

	var out []core.ArticleEngagement
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			continue
		}
		out = append(out, core.ArticleEngagement{
			UserID:    idString(doc["_id"]),
			Likes:     asStringSlice(doc["likes"]),
			Favorites: asStringSlice(doc["favorites"]),
			Read:      asStringSlice(doc["read"]),
		})
	}
	return out, cur.Err()
}

func (m *MongoCatalog) CourseTitle(ctx context.Context, id string) (string, error) {
	// 课程文档的 "id" 字段是数值型
	var filter bson.M
	if n, err := strconv.Atoi(id); err == nil {
		filter = bson.M{"id": n}
	} else {
		filter = bson.M{"id": id}
	}

	var doc bson.M
	err := m.db.Collection(colCourses).FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", core.NewDomainError(core.ModuleStore, core.ErrorCodeNotFound, fmt.Sprintf("course %s not found", id))
	}
	if err != nil {
		return "", fmt.Errorf("course title: %w", err)
	}
	if title := firstString(doc, "course", "title", "name"); title != "" {
		return title, nil
	}
	return "Course " + id, nil
}

func (m *MongoCatalog) ArticleTitle(ctx context.Context, id string) (string, error) {
	var doc bson.M
	err := m.db.Collection(colArticles).FindOne(ctx, bson.M{"id": NormalizeArticleID(id)}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", core.NewDomainError(core.ModuleStore, core.ErrorCodeNotFound, fmt.Sprintf("article %s not found", id))
	}
	if err != nil {
		return "", fmt.Errorf("article title: %w", err)
	}
	if title := asString(doc["title"]); title != "" {
		return title, nil
	}
	return "Article " + id, nil
}

func (m *MongoCatalog) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

var _ core.CatalogStore = (*MongoCatalog)(nil)

// decodeUser 把松散的用户文档投影成强类型记录。
func decodeUser(doc bson.M) core.UserRecord {
	u := core.UserRecord{
		ID:        idString(doc["_id"]),
		Name:      asString(doc["name"]),
		Interests: asStringSlice(doc["interests"]),
	}

	courses, _ := doc["courses"].(bson.A)
	for _, raw := range courses {
		c, ok := raw.(bson.M)
		if !ok {
			continue
		}
		courseID := asString(c["courseId"])
		if courseID == "" {
			courseID = idString(c["id"])
		}
		u.Courses = append(u.Courses, core.CoursePurchase{
			CourseID:  courseID,
			Purchased: asBool(c["purchased"]),
			Progress:  asFloatOr(c["progress"], core.DefaultProgress),
			Rating:    asFloatOr(c["rating"], core.DefaultRating),
		})
	}
	return u
}

// idFilter 构造 _id 查询：24 位十六进制串优先按 ObjectId 匹配。
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id}
}

// idString 把任意类型的文档标识转成字符串。
func idString(v any) string {
	switch x := v.(type) {
	case primitive.ObjectID:
		return x.Hex()
	case string:
		return x
	case int32:
		return strconv.Itoa(int(x))
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return ""
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// firstString 按给定字段顺序取第一个非空字符串。
func firstString(doc bson.M, keys ...string) string {
	for _, k := range keys {
		if s := asString(doc[k]); s != "" {
			return s
		}
	}
	return ""
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asFloatOr(v any, fallback float64) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case int:
		return float64(x)
	}
	return fallback
}

func asStringSlice(v any) []string {
	arr, ok := v.(bson.A)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s := idString(e); s != "" {
			out = append(out, s)
		}
	}
	return out
}
