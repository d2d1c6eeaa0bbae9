package value

import (
	"github.com/tidwall/gjson"
)

// Parse parses JSON text into a Value. It reports false when the text is
// not valid JSON.
func Parse(raw string) (Value, bool) {
	if !gjson.Valid(raw) {
		return Value{}, false
	}
	return FromJSON(gjson.Parse(raw)), true
}

// FromJSON converts a gjson result into a Value. Booleans and null become
// absent since no recipe field is boolean.
//
// Nested containers are converted with an explicit stack so that deeply
// nested payloads cannot exhaust the goroutine stack.
func FromJSON(root gjson.Result) Value {
	type frame struct {
		res  gjson.Result
		set  func(Value)
		done bool
	}

	var out Value
	stack := []frame{{res: root, set: func(v Value) { out = v }}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch {
		case f.res.IsArray():
			elems := f.res.Array()
			items := make([]Value, len(elems))
			f.set(List(items...))
			for i := range elems {
				stack = append(stack, frame{res: elems[i], set: func(v Value) { items[i] = v }})
			}
		case f.res.IsObject():
			m := map[string]Value{}
			f.set(Map(m))
			f.res.ForEach(func(key, val gjson.Result) bool {
				k := key.String()
				stack = append(stack, frame{res: val, set: func(v Value) {
					if !v.IsAbsent() {
						m[k] = v
					}
				}})
				return true
			})
		case f.res.Type == gjson.String:
			f.set(Text(f.res.Str))
		case f.res.Type == gjson.Number:
			f.set(Number(f.res.Num))
		default:
			f.set(Value{})
		}
	}

	return out
}

// FromAny converts plain Go values (as produced by encoding/json or written
// as literals) into a Value. Integer types become numbers; unsupported types
// become absent.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Value{}
	case Value:
		return t
	case string:
		return Text(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromAny(item)
		}
		return List(items...)
	case []string:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = Text(item)
		}
		return List(items...)
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, item := range t {
			if v := FromAny(item); !v.IsAbsent() {
				m[k] = v
			}
		}
		return Map(m)
	default:
		return Value{}
	}
}
