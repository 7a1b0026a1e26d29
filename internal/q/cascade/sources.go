package cascade

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// source supplies configuration values as a flat map of lowercase dot-path keys.
type source interface {
	name() string
	values() (map[string]any, error)
}

type mapSource struct {
	label string
	m     map[string]any
}

func (s mapSource) name() string { return s.label }

func (s mapSource) values() (map[string]any, error) {
	out := make(map[string]any, len(s.m))
	for k, v := range s.m {
		out[strings.ToLower(k)] = v
	}
	return out, nil
}

type jsonFileSource struct {
	path string
}

func (s jsonFileSource) name() string { return fmt.Sprintf("json file %s", s.path) }

func (s jsonFileSource) values() (map[string]any, error) {
	if s.path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(ExpandPath(s.path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, nil
		}
		return nil, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	out := map[string]any{}
	flatten("", raw, out)
	return out, nil
}

// flatten turns nested JSON objects into dot-path keys. Non-object values (including arrays) are leaves.
func flatten(prefix string, m map[string]any, out map[string]any) {
	for k, v := range m {
		key := strings.ToLower(k)
		if prefix != "" {
			key = prefix + "." + key
		}
		if child, ok := v.(map[string]any); ok {
			flatten(key, child, out)
			continue
		}
		out[key] = v
	}
}

type envSource struct {
	keys map[string]string // config dot-path -> env var name
}

func (s envSource) name() string { return "env" }

func (s envSource) values() (map[string]any, error) {
	out := map[string]any{}
	for key, envVar := range s.keys {
		if envVar == "" {
			continue
		}
		val, ok := os.LookupEnv(envVar)
		if !ok || val == "" {
			continue
		}
		out[strings.ToLower(key)] = val
	}
	return out, nil
}
