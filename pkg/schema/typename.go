package schema

import (
	"slices"
	"strconv"
	"strings"

	"github.com/githubnext/validata/pkg/document"
)

var simpleTypeNames = map[string]string{
	"string":  "str",
	"integer": "int",
	"number":  "float",
	"boolean": "bool",
	"null":    "None",
	"array":   "list",
	"object":  "dict",
}

var formatTypeNames = map[string]string{
	"date-time": "datetime",
	"date":      "date",
	"time":      "time",
	"uuid":      "UUID",
}

// TypeName renders the declared type of a node as its canonical short name
// (int, str, Address) when it has one, and as a structural description
// (list[int], Optional[str], Literal['a', 'b']) otherwise.
func TypeName(n *Node) string {
	if name, ok := simpleName(n); ok {
		return name
	}
	return describe(n)
}

func simpleName(n *Node) (string, bool) {
	if n == nil || n.Bool != nil {
		return "", false
	}
	if n.Ref != "" {
		return refName(n.Ref), true
	}
	if len(n.AllOf) == 1 && len(n.Types) == 0 {
		return simpleName(n.AllOf[0])
	}
	if n.HasConst || len(n.Enum) > 0 || len(n.AnyOf) > 0 || len(n.Types) != 1 {
		return "", false
	}

	switch t := n.Types[0]; t {
	case "string":
		if name, ok := formatTypeNames[n.Format]; ok {
			return name, true
		}
		return "str", true
	case "array":
		if n.Items != nil {
			return "", false
		}
		return "list", true
	case "object":
		if n.Title != "" {
			return n.Title, true
		}
		if n.AdditionalProperties != nil {
			return "", false
		}
		return "dict", true
	default:
		name, ok := simpleTypeNames[t]
		return name, ok
	}
}

func describe(n *Node) string {
	switch {
	case n == nil:
		return "Any"
	case n.Bool != nil:
		if *n.Bool {
			return "Any"
		}
		return "Never"
	case n.HasConst:
		return "Literal[" + literal(n.Const) + "]"
	case len(n.Enum) > 0:
		lits := make([]string, len(n.Enum))
		for i, v := range n.Enum {
			lits[i] = literal(v)
		}
		return "Literal[" + strings.Join(lits, ", ") + "]"
	case len(n.AnyOf) > 0:
		members := make([]string, len(n.AnyOf))
		for i, m := range n.AnyOf {
			members[i] = TypeName(m)
		}
		return union(members)
	case len(n.AllOf) > 0:
		members := make([]string, len(n.AllOf))
		for i, m := range n.AllOf {
			members[i] = TypeName(m)
		}
		return strings.Join(members, " & ")
	case len(n.Types) > 1:
		members := make([]string, len(n.Types))
		for i, t := range n.Types {
			single := *n
			single.Types = []string{t}
			members[i] = TypeName(&single)
		}
		return union(members)
	case n.HasType("array") && n.Items != nil:
		return "list[" + TypeName(n.Items) + "]"
	case n.HasType("object") && n.AdditionalProperties != nil:
		return "dict[str, " + TypeName(n.AdditionalProperties) + "]"
	default:
		return "Any"
	}
}

func union(members []string) string {
	var uniq []string
	optional := false
	for _, m := range members {
		if m == "None" {
			optional = true
			continue
		}
		if !slices.Contains(uniq, m) {
			uniq = append(uniq, m)
		}
	}

	var inner string
	switch len(uniq) {
	case 0:
		return "None"
	case 1:
		inner = uniq[0]
	default:
		inner = "Union[" + strings.Join(uniq, ", ") + "]"
	}
	if optional {
		return "Optional[" + inner + "]"
	}
	return inner
}

func literal(v document.Value) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case string:
		return "'" + strings.ReplaceAll(t, "'", `\'`) + "'"
	case bool:
		if t {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return describeValue(t)
	}
}

// refName returns the bare definition name of a reference such as
// #/$defs/Address.
func refName(ref string) string {
	if i := strings.LastIndexAny(ref, "/#"); i >= 0 && i < len(ref)-1 {
		return ref[i+1:]
	}
	return ref
}
