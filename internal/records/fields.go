package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrReadOnlyField = errors.New("read-only field")
	ErrNotAList      = errors.New("field is not a list")
	ErrItemNotFound  = errors.New("item not found")
)

// Fields maintained by the store or derived from other fields.
var readOnly = map[string]bool{
	"id": true, "createdAt": true, "updatedAt": true, "createdBy": true,
	"lastEditedBy": true, "lastEditedAt": true, "version": true, "meetingType": true,
}

type segment struct {
	name  string
	index int // -1 when the segment has no [n]
}

func parsePath(path string) ([]segment, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrUnknownField)
	}
	var out []segment
	for _, part := range strings.Split(path, ".") {
		seg := segment{name: part, index: -1}
		if i := strings.IndexByte(part, '['); i >= 0 {
			if !strings.HasSuffix(part, "]") {
				return nil, fmt.Errorf("%w: %s", ErrUnknownField, path)
			}
			n, err := strconv.Atoi(part[i+1 : len(part)-1])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: %s", ErrUnknownField, path)
			}
			seg = segment{name: part[:i], index: n}
		}
		if seg.name == "" {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, path)
		}
		out = append(out, seg)
	}
	return out, nil
}

// jsonFields maps the top-level JSON names of r's type to their Go types,
// including the promoted Meta fields.
func jsonFields(t reflect.Type) map[string]reflect.Type {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := map[string]reflect.Type{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			for k, v := range jsonFields(f.Type) {
				out[k] = v
			}
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name != "" && name != "-" {
			out[name] = f.Type
		}
	}
	return out
}

func toMap(r Record) (map[string]any, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func fromMap(r Record, m map[string]any) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	next, err := New(r.Kind())
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, next); err != nil {
		return err
	}
	reflect.ValueOf(r).Elem().Set(reflect.ValueOf(next).Elem())
	Derive(r)
	return nil
}

// coerce converts raw to the JSON type of the value it replaces.
func coerce(raw string, current any, goType reflect.Type) (any, error) {
	kind := reflect.String
	if goType != nil {
		kind = goType.Kind()
	}
	switch current.(type) {
	case float64:
		kind = reflect.Float64
	case bool:
		kind = reflect.Bool
	}

	switch kind {
	case reflect.Int, reflect.Int64, reflect.Float64:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", raw)
		}
		return n, nil
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("not a boolean: %q", raw)
		}
		return b, nil
	}
	return raw, nil
}

// SetField assigns raw to the field at path, e.g. "presidedBy",
// "speakers[1].topic" or "attendees[0]". Numbers and booleans are parsed.
func SetField(r Record, path, raw string) error {
	segs, err := parsePath(path)
	if err != nil {
		return err
	}
	fields := jsonFields(reflect.TypeOf(r))
	goType, ok := fields[segs[0].name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, segs[0].name)
	}
	if readOnly[segs[0].name] {
		return fmt.Errorf("%w: %s", ErrReadOnlyField, segs[0].name)
	}

	m, err := toMap(r)
	if err != nil {
		return err
	}

	var container any = m
	for i, seg := range segs {
		last := i == len(segs)-1

		obj, ok := container.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, path)
		}
		cur, exists := obj[seg.name]
		if !exists && i > 0 {
			return fmt.Errorf("%w: %s", ErrUnknownField, path)
		}

		if seg.index < 0 {
			if last {
				var t reflect.Type
				if i == 0 {
					t = goType
				}
				v, err := coerce(raw, cur, t)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				obj[seg.name] = v
				break
			}
			container = cur
			continue
		}

		list, ok := cur.([]any)
		if !ok && cur != nil {
			return fmt.Errorf("%w: %s", ErrNotAList, seg.name)
		}
		if seg.index >= len(list) {
			return fmt.Errorf("%w: %s[%d]", ErrItemNotFound, seg.name, seg.index)
		}
		if last {
			v, err := coerce(raw, list[seg.index], nil)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			list[seg.index] = v
			break
		}
		container = list[seg.index]
	}

	return fromMap(r, m)
}

func listField(r Record, list string) (reflect.Type, error) {
	t, ok := jsonFields(reflect.TypeOf(r))[list]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, list)
	}
	if t.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%w: %s", ErrNotAList, list)
	}
	return t.Elem(), nil
}

// AppendItem adds an element to a top-level list and returns its id. Lists
// of names take value as the element; lists of items get a fresh id, and a
// non-empty value becomes the item's type (e.g. "support").
func AppendItem(r Record, list, value string) (string, error) {
	elem, err := listField(r, list)
	if err != nil {
		return "", err
	}
	m, err := toMap(r)
	if err != nil {
		return "", err
	}
	cur, _ := m[list].([]any)

	var id string
	if elem.Kind() == reflect.String {
		id = value
		cur = append(cur, value)
	} else {
		id = NewItemID()
		item := map[string]any{"id": id}
		if value != "" {
			if _, ok := elem.FieldByName("Type"); ok {
				item["type"] = value
			}
		}
		cur = append(cur, item)
	}
	m[list] = cur

	if err := fromMap(r, m); err != nil {
		return "", err
	}
	return id, nil
}

// RemoveItem deletes the element of a top-level list whose id (or, for
// lists of names, whose value) equals key.
func RemoveItem(r Record, list, key string) error {
	if _, err := listField(r, list); err != nil {
		return err
	}
	m, err := toMap(r)
	if err != nil {
		return err
	}
	cur, _ := m[list].([]any)

	out := make([]any, 0, len(cur))
	removed := false
	for _, el := range cur {
		match := false
		switch v := el.(type) {
		case string:
			match = v == key
		case map[string]any:
			match = v["id"] == key
		}
		if match && !removed {
			removed = true
			continue
		}
		out = append(out, el)
	}
	if !removed {
		return fmt.Errorf("%w: %s %q", ErrItemNotFound, list, key)
	}
	m[list] = out
	return fromMap(r, m)
}
