// Package validate checks request input against declarative per-operation
// schemas and reports every failing field at once.
package validate

import (
	"sort"
	"strings"
)

// Input is the decoded request: plain values and uploaded file contents.
// A key absent from both maps was not sent.
type Input struct {
	Values map[string]string
	Files  map[string][]byte
}

func (in Input) value(field string) (string, bool) {
	v, ok := in.Values[field]
	return v, ok
}

func (in Input) file(field string) ([]byte, bool) {
	f, ok := in.Files[field]
	return f, ok
}

// present reports whether field carries a non-blank value or a non-empty file.
func (in Input) present(field string) bool {
	if f, ok := in.file(field); ok && len(f) > 0 {
		return true
	}
	v, ok := in.value(field)
	return ok && strings.TrimSpace(v) != ""
}

// Errors maps field names to their violation messages.
type Errors map[string][]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	var msgs []string
	for _, f := range fields {
		msgs = append(msgs, e[f]...)
	}
	return "validation failed: " + strings.Join(msgs, " ")
}

func (e Errors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Schema lists the rules for each field. Rules run in order; once Required
// fails the remaining rules for that field are skipped, and the other rules
// ignore fields that were not sent.
type Schema map[string][]Rule

// Check returns nil when in satisfies every rule, otherwise Errors.
func (s Schema) Check(in Input) error {
	errs := Errors{}
	for field, rules := range s {
		for _, rule := range rules {
			msgs := rule.check(field, in)
			for _, m := range msgs {
				errs.add(field, m)
			}
			if len(msgs) > 0 && rule.stop {
				break
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Schemas used by the category and post operations.
var (
	CategorySchema = Schema{
		"name": {Required},
	}
	PostCreateSchema = Schema{
		"title":       {Required},
		"content":     {Required},
		"category_id": {Required, Integer},
		"image":       {Required, Image("png", "jpg", "jpeg")},
	}
	PostUpdateSchema = Schema{
		"title":       {Required},
		"content":     {Required},
		"category_id": {Required, Integer},
		"image":       {Image("png", "jpg", "jpeg")},
	}
)
