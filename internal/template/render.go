// Package template renders request templates: JSON documents whose string
// leaves may contain the {{prompt}} and {{input}} markers.
package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	PromptMarker = "{{prompt}}"
	InputMarker  = "{{input}}"
)

// ErrInvalidTemplate is returned when the template is not a JSON document.
var ErrInvalidTemplate = errors.New("request template is not valid JSON")

// Render returns a new JSON document with every marker in every string leaf
// replaced. Object keys keep their source order, arrays keep their length and
// non-string scalars are copied verbatim. The template itself is never
// modified. {{prompt}} is replaced first and {{input}} second, so a prompt may
// itself reference {{input}} while an input containing {{prompt}} stays literal.
func Render(tpl []byte, input, prompt string) (json.RawMessage, error) {
	if !gjson.ValidBytes(tpl) {
		return nil, ErrInvalidTemplate
	}

	r := renderer{input: input, prompt: prompt}
	r.write(gjson.ParseBytes(tpl))
	if r.err != nil {
		return nil, r.err
	}
	return json.RawMessage(r.buf.Bytes()), nil
}

type renderer struct {
	input  string
	prompt string
	buf    bytes.Buffer
	err    error
}

func (r *renderer) substitute(s string) string {
	s = strings.ReplaceAll(s, PromptMarker, r.prompt)
	return strings.ReplaceAll(s, InputMarker, r.input)
}

func (r *renderer) write(v gjson.Result) {
	switch {
	case v.IsObject():
		r.buf.WriteByte('{')
		first := true
		v.ForEach(func(key, value gjson.Result) bool {
			if !first {
				r.buf.WriteByte(',')
			}
			first = false
			r.buf.WriteString(key.Raw)
			r.buf.WriteByte(':')
			r.write(value)
			return r.err == nil
		})
		r.buf.WriteByte('}')
	case v.IsArray():
		r.buf.WriteByte('[')
		first := true
		v.ForEach(func(_, value gjson.Result) bool {
			if !first {
				r.buf.WriteByte(',')
			}
			first = false
			r.write(value)
			return r.err == nil
		})
		r.buf.WriteByte(']')
	case v.Type == gjson.String:
		r.writeString(r.substitute(v.String()))
	default:
		r.buf.WriteString(v.Raw)
	}
}

func (r *renderer) writeString(s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		r.err = err
		return
	}
	r.buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
}
