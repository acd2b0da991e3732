// Package locale provides the localized reply strings for the bot. The host
// framework owns the real internationalization layer; components depend only
// on the Localizer interface, with these tables as the default provider.
package locale

import "fmt"

// Localizer resolves a message key into a formatted reply string.
type Localizer interface {
	Text(key string, args ...any) string
}

// Table is a map-backed Localizer with English fallback for missing keys.
type Table struct {
	strings map[string]string
}

// New returns the table for a language tag, falling back to English when the
// tag is unknown.
func New(lang string) *Table {
	if t, ok := tables[lang]; ok {
		return &Table{strings: t}
	}
	return &Table{strings: tables["en"]}
}

// Text implements Localizer. Unknown keys come back verbatim so a missing
// translation is visible rather than silent.
func (t *Table) Text(key string, args ...any) string {
	s, ok := t.strings[key]
	if !ok {
		s, ok = tables["en"][key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return s
	}
	return fmt.Sprintf(s, args...)
}

var tables = map[string]map[string]string{
	"en": {
		"command.usage":   "Usage: !%s <game name>",
		"search.failed":   "Search is unavailable right now, try again later.",
		"search.notFound": "No games found for %q.",
		"select.header":   "Which one did you mean? Reply with a number:",
		"detail.notFound": "That title has no store page in this region.",
		"render.failed":   "Could not fetch the game's details.",
		"render.free":     "Free",
		"render.reviews":  "%d%% positive",
		"render.release":  "Release date: %s",
		"render.credits":  "Developer: %s | Publisher: %s",
	},
	"zh-CN": {
		"command.usage":   "用法：!%s <游戏名>",
		"search.failed":   "搜索暂时不可用，请稍后再试。",
		"search.notFound": "未找到与 %q 相关的游戏。",
		"select.header":   "想了解哪一部？请回复序号：",
		"detail.notFound": "该游戏在当前区域没有商店页面。",
		"render.failed":   "获取游戏信息失败。",
		"render.free":     "免费",
		"render.reviews":  "好评率 %d%%",
		"render.release":  "发行日期：%s",
		"render.credits":  "开发商：%s | 发行商：%s",
	},
}
