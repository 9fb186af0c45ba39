// Package arena implements a bulk-release bump allocator and the
// case-insensitive string interning built on top of it, mirroring the
// ArenaMemoryResource / identifier-interning contract of the gta3sc IR: every
// object handed out by the compiler's IR, symbol and command tables is
// allocated here and released en masse when a compile session ends.
package arena

import "unsafe"

const (
	minChunkSize = 4096
	maxAlign     = 8
)

// Arena is a monotonic bump allocator. Allocation never fails short of the
// Go runtime itself running out of memory; Release drops every chunk back to
// the optional initial buffer supplied to New, letting the garbage collector
// reclaim everything allocated since.
//
// Arena is not safe for concurrent use: a single compile session owns a
// single Arena, used from a single goroutine (see package compiler).
type Arena struct {
	initial []byte
	chunks  [][]byte
	off     int

	idents   map[string]string
	literals map[string]string
}

// New creates an Arena. If initial is non-nil it is used as the first chunk
// and is what Release rewinds back to; otherwise the first chunk is
// allocated lazily on first use.
func New(initial []byte) *Arena {
	a := &Arena{
		idents:   make(map[string]string),
		literals: make(map[string]string),
	}
	if initial != nil {
		a.initial = initial
		a.chunks = [][]byte{initial}
	}
	return a
}

// Release unwinds all owned chunks back to the initial buffer (or to no
// buffer at all, if none was supplied), and clears the intern tables.
//
// Every pointer/slice/string previously handed out by this Arena becomes
// invalid for further allocation use after Release, though Go's garbage
// collector — not Release — decides when the backing memory actually goes
// away; Release only end the arena's bookkeeping, matching the "dealloaction
// is a no-op, release unwinds" contract.
func (a *Arena) Release() {
	if a.initial != nil {
		a.chunks = [][]byte{a.initial}
	} else {
		a.chunks = nil
	}
	a.off = 0
	a.idents = make(map[string]string)
	a.literals = make(map[string]string)
}

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

// alloc bump-allocates n bytes aligned to align (a power of two) and returns
// them. Growth policy: a new chunk is at least twice the size of the
// previous one and always large enough to hold the request plus alignment
// slack.
func (a *Arena) alloc(n, align int) []byte {
	if align <= 0 || align > maxAlign {
		align = maxAlign
	}
	if len(a.chunks) > 0 {
		cur := a.chunks[len(a.chunks)-1]
		start := alignUp(a.off, align)
		if start+n <= len(cur) {
			a.off = start + n
			return cur[start : start+n]
		}
	}
	a.grow(n, align)
	cur := a.chunks[len(a.chunks)-1]
	start := alignUp(0, align)
	a.off = start + n
	return cur[start : start+n]
}

func (a *Arena) grow(n, align int) {
	prev := 0
	if len(a.chunks) > 0 {
		prev = len(a.chunks[len(a.chunks)-1])
	}
	size := prev * 2
	need := n + align
	if size < need {
		size = need
	}
	if size < minChunkSize {
		size = minChunkSize
	}
	a.chunks = append(a.chunks, make([]byte, size))
	a.off = 0
}

// bytesToString views b, which must have been allocated from this Arena (and
// therefore outlives the returned string for the Arena's lifetime), as a
// string without copying.
func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// InternIdent copies s into the arena, upper-cased, and returns a
// deduplicated view shared by every prior caller that interned the same
// identifier under any casing. This implements the "symbol names are
// matched case-insensitively; keys are stored as the uppercased interned
// form" invariant.
func (a *Arena) InternIdent(s string) string {
	up := toUpperASCII(s)
	if v, ok := a.idents[up]; ok {
		return v
	}
	buf := a.alloc(len(up), 1)
	copy(buf, up)
	v := bytesToString(buf)
	a.idents[v] = v
	return v
}

// InternString copies s into the arena verbatim (no case folding) and
// returns a deduplicated view, used for string/text-label literal payloads
// where original casing must be preserved.
func (a *Arena) InternString(s string) string {
	if v, ok := a.literals[s]; ok {
		return v
	}
	buf := a.alloc(len(s), 1)
	copy(buf, s)
	v := bytesToString(buf)
	a.literals[v] = v
	return v
}

func toUpperASCII(s string) string {
	needsUpper := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			needsUpper = true
			break
		}
	}
	if !needsUpper {
		return s
	}
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		b[i] = c
	}
	return string(b)
}
