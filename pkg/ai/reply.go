package ai

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Kind tells how a reply was decoded.
type Kind int

const (
	// Structured: the whole reply (minus code fences) was the object.
	Structured Kind = iota
	// Recovered: an object was found embedded in surrounding prose.
	Recovered
	// RawFallback: no object could be decoded; only the raw text remains.
	RawFallback
)

func (k Kind) String() string {
	switch k {
	case Structured:
		return "structured"
	case Recovered:
		return "recovered"
	default:
		return "raw_fallback"
	}
}

// Reply is the result of decoding model output into T. Value and JSON are
// set for Structured and Recovered; Raw always holds the original text.
type Reply[T any] struct {
	Kind  Kind
	Value T
	JSON  []byte
	Raw   string
}

// Decode strips code fences and parses the reply as a T. If that fails it
// retries on the first balanced {...} object inside the text, and finally
// falls back to the raw text.
func Decode[T any](raw string) Reply[T] {
	cleaned := StripFences(raw)
	if v, ok := decodeObject[T](cleaned); ok {
		return Reply[T]{Kind: Structured, Value: v, JSON: []byte(cleaned), Raw: raw}
	}
	for start := strings.IndexByte(cleaned, '{'); start >= 0; {
		if end, ok := balancedEnd(cleaned, start); ok {
			frag := cleaned[start : end+1]
			if v, ok := decodeObject[T](frag); ok {
				return Reply[T]{Kind: Recovered, Value: v, JSON: []byte(frag), Raw: raw}
			}
		}
		next := strings.IndexByte(cleaned[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return Reply[T]{Kind: RawFallback, Raw: raw}
}

// Fold applies the arm matching r's kind. Every caller names all three
// outcomes.
func Fold[T, R any](r Reply[T], structured func(T) R, recovered func(T) R, fallback func(raw string) R) R {
	switch r.Kind {
	case Structured:
		return structured(r.Value)
	case Recovered:
		return recovered(r.Value)
	default:
		return fallback(r.Raw)
	}
}

// StripFences removes a surrounding markdown code fence such as ```json.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func decodeObject[T any](s string) (T, bool) {
	var v T
	b := bytes.TrimSpace([]byte(s))
	if len(b) == 0 || b[0] != '{' {
		return v, false
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, false
	}
	return v, true
}

// balancedEnd returns the index of the brace closing the object opened at
// start, ignoring braces inside JSON strings.
func balancedEnd(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
