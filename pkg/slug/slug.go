// Package slug 提供URL安全标识与物化路径的纯函数工具
//
// 设计说明：
// 1. Slugify是确定性纯函数：相同输入永远产生相同输出，不做唯一性检查
//    （唯一性由调用方/数据库唯一索引保证）
// 2. 物化路径（materialized path）用"/"连接祖先slug，如 men/shoes/sports
//    前缀查询必须以"/"为边界（men不能匹配mens-wear）
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PathSeparator 物化路径分隔符
const PathSeparator = "/"

// stripDiacritics 去除变音符号（é → e、ü → u）
// 实现：NFD分解后删除所有Unicode组合标记（Mn类）
var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Slugify 将人类可读名称转换为URL安全的slug
// 规则（strict模式）：
// 1. 转小写
// 2. 去除变音符号
// 3. 连续空白折叠为单个连字符
// 4. 丢弃[a-z0-9-]之外的所有字符
// 5. 去除首尾连字符，连续连字符折叠为一个
func Slugify(name string) string {
	folded, _, err := transform.String(stripDiacritics, name)
	if err != nil {
		// 变音符号处理失败时退回原始输入（仍会被严格过滤）
		folded = name
	}

	lower := strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(lower))
	lastHyphen := false
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r), r == '-', r == '_':
			// 空白与分隔符统一折叠为单个连字符
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		default:
			// strict模式：其余字符直接丢弃
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// BuildPath 构建物化路径
// 根分类：path = slug；子分类：path = parentPath + "/" + slug
func BuildPath(parentPath, s string) string {
	if parentPath == "" {
		return s
	}
	return parentPath + PathSeparator + s
}

// SplitPath 将物化路径拆分为各级slug（根到叶）
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, PathSeparator)
}

// PrefixPaths 返回路径的所有累积前缀（根到叶）
// 例：men/shoes/sports → [men, men/shoes, men/shoes/sports]
// 用于面包屑查询
func PrefixPaths(path string) []string {
	slugs := SplitPath(path)
	if len(slugs) == 0 {
		return nil
	}
	prefixes := make([]string, 0, len(slugs))
	current := ""
	for _, s := range slugs {
		current = BuildPath(current, s)
		prefixes = append(prefixes, current)
	}
	return prefixes
}

// IsSubtreePath 判断candidate是否位于base的子树内（不含base自身）
// 严格以"/"为边界：base=men时，men/shoes命中，mens-wear不命中
func IsSubtreePath(base, candidate string) bool {
	return strings.HasPrefix(candidate, base+PathSeparator)
}

// ReplacePathPrefix 将路径的旧前缀替换为新前缀
// 仅当path等于oldPrefix或以oldPrefix+"/"开头时才替换，否则原样返回
// 与数据库端的集合式UPDATE保持同一语义
func ReplacePathPrefix(path, oldPrefix, newPrefix string) string {
	if path == oldPrefix {
		return newPrefix
	}
	if IsSubtreePath(oldPrefix, path) {
		return newPrefix + path[len(oldPrefix):]
	}
	return path
}
