package bridge

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/nvigo/nvigo/errors"
	"github.com/nvigo/nvigo/object"
)

// Per-type plans are compiled once and cached for the life of the process.
var planCache sync.Map // reflect.Type -> *structPlan

type structPlan struct {
	fields  []fieldPlan
	byName  map[string]int
	isUnion bool
}

type fieldPlan struct {
	name      string
	index     int
	optional  bool // missing key keeps the zero value
	omitEmpty bool // zero pointer omitted on encode instead of emitted as Nil
}

var (
	unionType         = reflect.TypeOf(Union{})
	objectType        = reflect.TypeOf(object.Object{})
	callbackRefType   = reflect.TypeOf(object.CallbackRef(0))
	objectEncoderType = reflect.TypeOf((*ObjectEncoder)(nil)).Elem()
	objectDecoderType = reflect.TypeOf((*ObjectDecoder)(nil)).Elem()
	enumType          = reflect.TypeOf((*Enum)(nil)).Elem()
)

func planFor(t reflect.Type) (*structPlan, error) {
	if cached, ok := planCache.Load(t); ok {
		return cached.(*structPlan), nil
	}

	plan := &structPlan{byName: make(map[string]int)}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == unionType {
			plan.isUnion = true
			continue
		}
		if !f.IsExported() {
			continue
		}

		name, opts := parseTag(f.Tag.Get("nvim"))
		if name == "-" {
			continue
		}
		if name == "" {
			name = toSnakeCase(f.Name)
		}

		fp := fieldPlan{
			name:      name,
			index:     i,
			optional:  f.Type.Kind() == reflect.Pointer || opts["default"],
			omitEmpty: opts["omitempty"],
		}
		plan.byName[name] = len(plan.fields)
		plan.fields = append(plan.fields, fp)
	}

	if plan.isUnion {
		for _, fp := range plan.fields {
			if t.Field(fp.index).Type.Kind() != reflect.Pointer {
				return nil, errors.New(errors.PhaseBridge, errors.KindInvalidData).
					Detail("union %s: case field %q must be a pointer", t.String(), fp.name).
					Build()
			}
		}
	}

	plan, _ = loadOrStorePlan(t, plan)
	return plan, nil
}

func loadOrStorePlan(t reflect.Type, plan *structPlan) (*structPlan, bool) {
	actual, loaded := planCache.LoadOrStore(t, plan)
	return actual.(*structPlan), loaded
}

func parseTag(tag string) (name string, opts map[string]bool) {
	opts = make(map[string]bool)
	parts := strings.Split(tag, ",")
	name = parts[0]
	for _, opt := range parts[1:] {
		opts[opt] = true
	}
	return name, opts
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func valueOf(v any) reflect.Value {
	return reflect.ValueOf(v)
}

// targetOf unwraps the mandatory pointer target for Decode.
func targetOf(target any) reflect.Value {
	return reflect.ValueOf(target)
}
