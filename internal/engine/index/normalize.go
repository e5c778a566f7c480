package index

import (
	"bytes"

	"eosindex/internal/shared/util"

	"gopkg.in/yaml.v3"
)

// OrderedMap is a mapping that serializes its keys in Keys order.
type OrderedMap struct {
	Keys   []string
	Values map[string]interface{}
}

func (m OrderedMap) Len() int {
	return len(m.Keys)
}

func (m OrderedMap) Get(key string) (interface{}, bool) {
	v, ok := m.Values[key]
	return v, ok
}

func (m OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := util.MarshalJSON(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := util.MarshalJSON(m.Values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m OrderedMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.Keys {
		var val yaml.Node
		if err := val.Encode(m.Values[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val,
		)
	}
	return node, nil
}

// Normalize deep-copies v, turning every string-keyed mapping into an
// OrderedMap with alphabetically sorted keys. Sequence order is kept.
func Normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		keys := util.SortedStringKeys(t)
		out := OrderedMap{Keys: keys, Values: make(map[string]interface{}, len(t))}
		for _, k := range keys {
			out.Values[k] = Normalize(t[k])
		}
		return out
	case OrderedMap:
		return Normalize(t.Values)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}
		return out
	case []map[string]interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}
		return out
	default:
		return v
	}
}
