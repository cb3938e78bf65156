package core

import "fmt"

// Domain 表示推荐物品所属的领域（目录分区）。
// 实体索引空间按 users | courses | articles 三个连续区块排布，
// Domain 决定召回与打分只在对应区块内进行。
type Domain string

const (
	DomainCourse  Domain = "course"
	DomainArticle Domain = "article"
)

// ParseDomain 解析外部传入的 domain 字符串，非法值返回错误。
func ParseDomain(s string) (Domain, error) {
	switch Domain(s) {
	case DomainCourse:
		return DomainCourse, nil
	case DomainArticle:
		return DomainArticle, nil
	default:
		return "", fmt.Errorf("unknown domain %q (expect course or article)", s)
	}
}

func (d Domain) String() string { return string(d) }
