// Package store 实现领域存储接口：Mongo 文档库、Redis/内存 KV。
package store

import "strings"

// NormalizeArticleID 收敛源系统文章 ID 的格式怪癖：
// 以 '7' 开头且含小数点的 ID 在文档库里带一个前导 '0'。
// 这是上游数据的历史问题而不是有意的契约，集中在存储边界处理，
// 其他层一律使用传入的原始 ID。
func NormalizeArticleID(id string) string {
	if strings.HasPrefix(id, "7") && strings.Contains(id, ".") {
		return "0" + id
	}
	return id
}
