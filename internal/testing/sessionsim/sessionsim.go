// Package sessionsim builds synthetic session transcripts for tests.
//
// A Builder appends records the way Claude Code writes them: every record
// links to the previous one through parentUuid, user prompts carry string
// content, tool results carry array content, and assistant replies carry the
// cumulative prompt-cache counters.
package sessionsim

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/sjson"
)

var namespace = uuid.MustParse("6f1c0b3e-2d7a-4e55-9a61-7c1f0d2b8e44")

type block struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Content string `json:"content,omitempty"`
}

// Builder accumulates transcript lines.
type Builder struct {
	lines []string
	uuids []string
	prev  string
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{}
}

// ID returns the deterministic uuid of the n-th record (0-based).
func ID(n int) string {
	return uuid.NewSHA1(namespace, []byte(fmt.Sprintf("record-%d", n))).String()
}

func (b *Builder) base(kind string) string {
	line := "{}"
	if b.prev == "" {
		line, _ = sjson.SetRaw(line, "parentUuid", "null")
	} else {
		line, _ = sjson.Set(line, "parentUuid", b.prev)
	}
	line, _ = sjson.Set(line, "isSidechain", false)
	line, _ = sjson.Set(line, "type", kind)
	return line
}

func (b *Builder) push(line string) *Builder {
	id := ID(len(b.lines))
	line, _ = sjson.Set(line, "uuid", id)
	b.lines = append(b.lines, line)
	b.uuids = append(b.uuids, id)
	b.prev = id
	return b
}

// User appends a human prompt.
func (b *Builder) User(text string) *Builder {
	line := b.base("user")
	line, _ = sjson.Set(line, "message.role", "user")
	line, _ = sjson.Set(line, "message.content", text)
	return b.push(line)
}

// ToolResult appends a user record with array content.
func (b *Builder) ToolResult(output string) *Builder {
	line := b.base("user")
	line, _ = sjson.Set(line, "message.role", "user")
	line, _ = sjson.Set(line, "message.content", []block{{Type: "tool_result", Content: output}})
	return b.push(line)
}

// Assistant appends an assistant reply with the given cumulative counters.
func (b *Builder) Assistant(text string, cacheCreate, cacheRead int) *Builder {
	line := b.base("assistant")
	line, _ = sjson.Set(line, "message.role", "assistant")
	line, _ = sjson.Set(line, "message.content", []block{{Type: "text", Text: text}})
	line, _ = sjson.Set(line, "message.usage.input_tokens", 4)
	line, _ = sjson.Set(line, "message.usage.cache_creation_input_tokens", cacheCreate)
	line, _ = sjson.Set(line, "message.usage.cache_read_input_tokens", cacheRead)
	line, _ = sjson.Set(line, "message.usage.output_tokens", 12)
	return b.push(line)
}

// Turn appends a prompt and a reply whose cache_read counter is tokens.
func (b *Builder) Turn(text string, tokens int) *Builder {
	return b.User(text).Assistant("ok", 0, tokens)
}

// Summary appends a record without uuid or parentUuid.
func (b *Builder) Summary(text string) *Builder {
	line, _ := sjson.Set(`{"type":"summary"}`, "summary", text)
	b.lines = append(b.lines, line)
	b.uuids = append(b.uuids, "")
	return b
}

// Raw appends a line as-is. It does not take part in the uuid chain.
func (b *Builder) Raw(line string) *Builder {
	b.lines = append(b.lines, line)
	b.uuids = append(b.uuids, "")
	return b
}

// Lines returns a copy of the built transcript.
func (b *Builder) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Len is the number of lines built so far.
func (b *Builder) Len() int {
	return len(b.lines)
}

// UUIDAt returns the uuid of the record at the 1-based line, "" for records
// without one.
func (b *Builder) UUIDAt(line int) string {
	return b.uuids[line-1]
}
