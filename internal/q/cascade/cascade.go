// Package cascade loads configuration from layered sources. Sources are registered from lowest to highest priority (typically defaults, then a JSON file, then
// environment variables) and applied in order to a destination struct, later sources overwriting earlier values.
//
// Keys are lowercase dot-paths. A nested struct field contributes its name as a path segment, so {"generator": {"provider": "openai"}} in a JSON file and the
// defaults key "generator.provider" address the same field. Field names come from the `cascade` tag, then the `json` tag, then the lowercased Go name; a tag of
// "-" hides the field. Unknown keys are ignored.
package cascade

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

type Loader struct {
	sources []source // ordered low to high priority
}

// New returns an empty Loader. It is equivalent to &Loader{} and exists for fluent chaining: New().WithDefaults(...).WithJSONFile(...).WithEnv(...).Load(&cfg).
func New() *Loader {
	return &Loader{}
}

// WithDefaults registers m as a source of default values, keyed by dot-path. A nil map contributes nothing.
func (l *Loader) WithDefaults(m map[string]any) *Loader {
	l.sources = append(l.sources, mapSource{label: "defaults", m: m})
	return l
}

// WithJSONFile registers a JSON file source. The path may start with "~" (expanded via ExpandPath) and is read at Load time; a missing, unreadable, or empty
// file contributes nothing, while a present file that fails to parse is a Load error.
func (l *Loader) WithJSONFile(path string) *Loader {
	l.sources = append(l.sources, jsonFileSource{path: path})
	return l
}

// WithEnv registers an environment source. m maps a config dot-path to the environment variable that supplies it; unset and empty variables contribute nothing.
// Empty variables are skipped because an exported-but-blank variable should not mask a value from a lower source.
func (l *Loader) WithEnv(m map[string]string) *Loader {
	l.sources = append(l.sources, envSource{keys: m})
	return l
}

// Load applies all sources to dest, which must be a non-nil pointer to a struct. Values are coerced to the field type where unambiguous ("4" to 4, "true" to
// true, a comma-separated string to []string). A value that cannot be coerced fails the whole Load; later sources never paper over earlier bad values.
func (l *Loader) Load(dest any) error {
	v := reflect.ValueOf(dest)
	if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("cascade: dest must be a non-nil pointer to struct")
	}

	fields := map[string]reflect.Value{}
	indexFields(v.Elem(), "", fields)

	for _, src := range l.sources {
		m, err := src.values()
		if err != nil {
			return fmt.Errorf("cascade: %s: %w", src.name(), err)
		}
		for key, raw := range m {
			f, ok := fields[key]
			if !ok {
				continue
			}
			if err := assign(f, raw); err != nil {
				return fmt.Errorf("cascade: %s: key %q: %w", src.name(), key, err)
			}
		}
	}
	return nil
}

// indexFields maps every settable leaf field to its lowercase dot-path. Nested structs recurse; their own path is not assignable.
func indexFields(v reflect.Value, prefix string, out map[string]reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}
		key := fieldKey(t.Field(i))
		if key == "-" || key == "" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}
		if fv.Kind() == reflect.Struct {
			indexFields(fv, key, out)
			continue
		}
		out[key] = fv
	}
}

func fieldKey(f reflect.StructField) string {
	for _, tag := range []string{"cascade", "json"} {
		if t := f.Tag.Get(tag); t != "" {
			name := strings.TrimSpace(strings.Split(t, ",")[0])
			if name != "" {
				return strings.ToLower(name)
			}
		}
	}
	return strings.ToLower(f.Name)
}

func assign(f reflect.Value, raw any) error {
	switch f.Kind() {
	case reflect.String:
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", raw)
		}
		f.SetString(s)

	case reflect.Bool:
		switch x := raw.(type) {
		case bool:
			f.SetBool(x)
		case string:
			b, err := strconv.ParseBool(x)
			if err != nil {
				return fmt.Errorf("cannot parse %q as bool", x)
			}
			f.SetBool(b)
		default:
			return fmt.Errorf("expected bool, got %T", raw)
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch x := raw.(type) {
		case int:
			f.SetInt(int64(x))
		case float64:
			if x != math.Trunc(x) {
				return fmt.Errorf("expected integer, got %v", x)
			}
			f.SetInt(int64(x))
		case string:
			n, err := strconv.ParseInt(x, 10, 64)
			if err != nil {
				return fmt.Errorf("cannot parse %q as integer", x)
			}
			f.SetInt(n)
		default:
			return fmt.Errorf("expected integer, got %T", raw)
		}

	case reflect.Float32, reflect.Float64:
		switch x := raw.(type) {
		case float64:
			f.SetFloat(x)
		case int:
			f.SetFloat(float64(x))
		case string:
			fl, err := strconv.ParseFloat(x, 64)
			if err != nil {
				return fmt.Errorf("cannot parse %q as number", x)
			}
			f.SetFloat(fl)
		default:
			return fmt.Errorf("expected number, got %T", raw)
		}

	case reflect.Slice:
		if f.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", f.Type())
		}
		switch x := raw.(type) {
		case []string:
			f.Set(reflect.ValueOf(append([]string(nil), x...)))
		case []any:
			out := make([]string, len(x))
			for i, e := range x {
				s, ok := e.(string)
				if !ok {
					return fmt.Errorf("expected string array, element %d is %T", i, e)
				}
				out[i] = s
			}
			f.Set(reflect.ValueOf(out))
		case string:
			parts := strings.Split(x, ",")
			out := make([]string, 0, len(parts))
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			f.Set(reflect.ValueOf(out))
		default:
			return fmt.Errorf("expected string list, got %T", raw)
		}

	default:
		return fmt.Errorf("unsupported field kind %s", f.Kind())
	}
	return nil
}
