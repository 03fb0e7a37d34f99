// Package transcript models the records of a Claude Code session log and
// extracts the cumulative token series that compaction works on.
//
// Records are read with gjson directly from the raw line. Nothing is
// unmarshalled into structs, so fields this package does not know about are
// never touched and a line that is not edited can be written back verbatim.
package transcript

import (
	"github.com/tidwall/gjson"
)

// JSON paths of the fields compaction reads or patches.
const (
	PathType        = "type"
	PathUUID        = "uuid"
	PathParentUUID  = "parentUuid"
	PathRole        = "message.role"
	PathContent     = "message.content"
	PathCacheRead   = "message.usage.cache_read_input_tokens"
	PathCacheCreate = "message.usage.cache_creation_input_tokens"
)

// Usage holds the cumulative prompt-cache counters of an assistant record.
type Usage struct {
	CacheCreationInputTokens int
	CacheReadInputTokens     int
}

// Total is the context consumed at this point of the session.
func (u Usage) Total() int {
	return u.CacheCreationInputTokens + u.CacheReadInputTokens
}

// Entry is a parsed view over one log line.
type Entry struct {
	Raw   string
	Valid bool // line is well-formed JSON

	Type       string
	UUID       string
	ParentUUID string
	HasParent  bool // parentUuid present and not null

	Role    string
	Content string // only set when message.content is a plain string
	// TextContent is false for tool results, whose content is an array.
	TextContent bool

	Usage Usage
	// HasCacheRead reports whether message.usage.cache_read_input_tokens exists.
	HasCacheRead bool
}

// Parse reads the fields compaction cares about from a raw line.
// Malformed lines come back with Valid=false and only Raw set.
func Parse(line string) Entry {
	e := Entry{Raw: line}
	if !gjson.Valid(line) {
		return e
	}
	e.Valid = true

	res := gjson.GetMany(line, PathType, PathUUID, PathParentUUID, PathRole, PathContent)
	e.Type = res[0].String()
	e.UUID = res[1].String()
	if res[2].Type == gjson.String {
		e.ParentUUID = res[2].Str
		e.HasParent = true
	}
	e.Role = res[3].String()
	if res[4].Type == gjson.String {
		e.Content = res[4].Str
		e.TextContent = true
	}

	cacheRead := gjson.Get(line, PathCacheRead)
	e.HasCacheRead = cacheRead.Exists()
	e.Usage = Usage{
		CacheCreationInputTokens: clamp(gjson.Get(line, PathCacheCreate).Int()),
		CacheReadInputTokens:     clamp(cacheRead.Int()),
	}
	return e
}

// IsUserTurn reports whether the entry is a human prompt: a user record with
// plain string content. Tool results are user records too but carry array
// content and do not open a turn.
func (e Entry) IsUserTurn() bool {
	return e.Valid && e.Type == "user" && e.Role == "user" && e.TextContent
}

// IsUserRecord reports whether the line is any user-typed record.
func (e Entry) IsUserRecord() bool {
	return e.Valid && e.Type == "user"
}

// ReadUsage reads the usage counters of a line leniently. gjson stops at the
// first syntax error, so counters that precede a corrupted tail still count.
func ReadUsage(line string) Usage {
	res := gjson.GetMany(line, PathCacheCreate, PathCacheRead)
	return Usage{
		CacheCreationInputTokens: clamp(res[0].Int()),
		CacheReadInputTokens:     clamp(res[1].Int()),
	}
}

func clamp(n int64) int {
	if n < 0 {
		return 0
	}
	return int(n)
}
