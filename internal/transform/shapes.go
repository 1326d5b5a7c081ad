package transform

import (
	"strconv"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/zorxCorp/guaphy/internal/model"
)

// A value is node-shaped when it carries identity, labels and properties and
// no start/end; relationship-shaped when it carries identity, type,
// properties, start and end. Driver structs and plain maps are both accepted.

func isNode(v any) bool {
	_, ok := asNode(v)
	return ok
}

func asNode(v any) (model.Node, bool) {
	switch n := v.(type) {
	case dbtype.Node:
		return model.Node{Identity: strconv.FormatInt(n.Id, 10), Labels: n.Labels, Properties: properties(n.Props)}, true
	case *dbtype.Node:
		if n == nil {
			return model.Node{}, false
		}
		return asNode(*n)
	case map[string]any:
		_, hasStart := n["start"]
		_, hasEnd := n["end"]
		if hasStart || hasEnd {
			return model.Node{}, false
		}
		id, okID := idString(n["identity"])
		labels, okLabels := stringList(n["labels"])
		props, okProps := n["properties"].(map[string]any)
		if !okID || !okLabels || !okProps {
			return model.Node{}, false
		}
		return model.Node{Identity: id, Labels: labels, Properties: properties(props)}, true
	}
	return model.Node{}, false
}

func asRelationship(v any) (model.Relationship, bool) {
	switch r := v.(type) {
	case dbtype.Relationship:
		return model.Relationship{
			Identity:   strconv.FormatInt(r.Id, 10),
			Start:      strconv.FormatInt(r.StartId, 10),
			End:        strconv.FormatInt(r.EndId, 10),
			Type:       r.Type,
			Properties: properties(r.Props),
		}, true
	case *dbtype.Relationship:
		if r == nil {
			return model.Relationship{}, false
		}
		return asRelationship(*r)
	case map[string]any:
		id, okID := idString(r["identity"])
		start, okStart := idString(r["start"])
		end, okEnd := idString(r["end"])
		typ, okType := r["type"].(string)
		props, okProps := r["properties"].(map[string]any)
		if !okID || !okStart || !okEnd || !okType || !okProps {
			return model.Relationship{}, false
		}
		return model.Relationship{Identity: id, Start: start, End: end, Type: typ, Properties: properties(props)}, true
	}
	return model.Relationship{}, false
}

func identity(v any) (string, bool) {
	n, ok := asNode(v)
	return n.Identity, ok
}

func endpoints(edge any) (string, string, bool) {
	r, ok := asRelationship(edge)
	return r.Start, r.End, ok
}

// idString renders an identity as a decimal string.
func idString(v any) (string, bool) {
	switch id := v.(type) {
	case int64:
		return strconv.FormatInt(id, 10), true
	case int:
		return strconv.Itoa(id), true
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case string:
		return id, id != ""
	}
	return "", false
}

func stringList(v any) ([]string, bool) {
	switch l := v.(type) {
	case []string:
		return l, true
	case []any:
		out := make([]string, 0, len(l))
		for _, e := range l {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
