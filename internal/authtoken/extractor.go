// Package authtoken derives the short-lived authorization token embedded in
// the conversion service's landing page.
//
// The page carries an obfuscated payload as a serialized array inside a
// script-evaluation call. The payload rotates on every page load, so the
// token must be re-derived for each handshake; nothing here is cacheable.
package authtoken

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/dop251/goja"
)

// Token is the derived authorization value plus the query parameter name it
// must be sent under on the init request.
type Token struct {
	Param string
	Value string
}

// ErrExtraction indicates the page payload was missing or had an unexpected
// shape. All extraction failures wrap this error; there is no partial
// recovery.
var ErrExtraction = errors.New("auth payload extraction failed")

const (
	maxTokenLen  = 32
	defaultParam = "u"
)

// The payload sits inside a JSON.parse('...') call in an inline script.
var payloadRegexp = regexp.MustCompile(`JSON\.parse\('([^']+)'\)`)

// Extract locates the serialized payload in the landing page HTML and
// derives (param, token). It is a pure function of its input.
func Extract(html string) (Token, error) {
	m := payloadRegexp.FindStringSubmatch(html)
	if len(m) != 2 {
		return Token{}, fmt.Errorf("%w: payload not found in page", ErrExtraction)
	}
	arr, err := decodePayload(m[1])
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	return derive(arr)
}

// decodePayload parses the captured literal. Strict JSON is the fast path;
// the upstream obfuscator has shipped literals that are valid JavaScript but
// not valid JSON (trailing commas, single-quoted strings), so fall back to
// evaluating the literal and exporting the result.
func decodePayload(literal string) ([]any, error) {
	var arr []any
	if err := json.Unmarshal([]byte(literal), &arr); err == nil {
		return arr, nil
	}

	vm := goja.New()
	v, err := vm.RunString("(" + literal + ")")
	if err != nil {
		return nil, fmt.Errorf("payload is neither JSON nor evaluable: %v", err)
	}
	if err := vm.ExportTo(v, &arr); err != nil {
		return nil, fmt.Errorf("payload did not evaluate to an array: %v", err)
	}
	return arr, nil
}

// derive computes the token from the decoded payload array:
// index 0 holds the code sequence, index 1 the reverse flag, index 2 the key
// sequence, index 6 the ASCII code of the query parameter name. Each token
// byte is codes[t] - keys[len(keys)-1-t], i.e. the codes zipped forward
// against the keys reversed.
func derive(arr []any) (Token, error) {
	if len(arr) < 3 {
		return Token{}, fmt.Errorf("%w: payload has %d elements, want at least 3", ErrExtraction, len(arr))
	}
	codes, ok := asIntSlice(arr[0])
	if !ok {
		return Token{}, fmt.Errorf("%w: code sequence is not an integer array", ErrExtraction)
	}
	keys, ok := asIntSlice(arr[2])
	if !ok {
		return Token{}, fmt.Errorf("%w: key sequence is not an integer array", ErrExtraction)
	}
	if len(keys) < len(codes) {
		return Token{}, fmt.Errorf("%w: key sequence shorter than code sequence", ErrExtraction)
	}
	reverseFlag, _ := asInt(arr[1])

	buf := make([]byte, len(codes))
	for t, c := range codes {
		buf[t] = byte(c - keys[len(keys)-1-t])
	}
	if reverseFlag != 0 {
		for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}
	if len(buf) > maxTokenLen {
		buf = buf[:maxTokenLen]
	}

	param := defaultParam
	if len(arr) > 6 {
		if code, ok := asInt(arr[6]); ok && code > 0 && code < 128 {
			param = string(rune(code))
		}
	}
	return Token{Param: param, Value: string(buf)}, nil
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

func asIntSlice(v any) ([]int64, bool) {
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]int64, len(raw))
	for i, e := range raw {
		n, ok := asInt(e)
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}
