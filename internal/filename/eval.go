package filename

import (
	"strconv"
	"strings"

	"github.com/cuesmith/cuesmith/internal/types"
)

// evalNodes concatenates the rendering of each node, reporting whether
// any %var% directly or transitively under nodes (through literals and
// function arguments, but not through a nested [...] group, which
// resolves its own suppression) evaluated to the empty string.
func evalNodes(nodes []node, ctx *Context) (string, bool, error) {
	var b strings.Builder
	anyEmpty := false
	for _, n := range nodes {
		switch v := n.(type) {
		case literalNode:
			b.WriteString(string(v))
		case varNode:
			val, _ := ctx.resolve(v.name)
			if val == "" {
				anyEmpty = true
			}
			b.WriteString(val)
		case groupNode:
			text, groupEmpty, err := evalNodes(v.children, ctx)
			if err != nil {
				return "", false, err
			}
			if !groupEmpty {
				b.WriteString(text)
			}
		case funcNode:
			text, fnEmpty, err := evalFunc(v, ctx)
			if err != nil {
				return "", false, err
			}
			if fnEmpty {
				anyEmpty = true
			}
			b.WriteString(text)
		default:
			return "", false, &types.TemplateError{Kind: types.TemplateBadFunctionCall, Msg: "unrecognized node"}
		}
	}
	return b.String(), anyEmpty, nil
}

// evalFunc evaluates every argument of f, then applies the named
// function. The reported emptiness is the OR of its arguments'
// emptiness, so a function wrapping an unresolved %var% still suppresses
// an enclosing group.
func evalFunc(f funcNode, ctx *Context) (string, bool, error) {
	args := make([]string, len(f.args))
	anyEmpty := false
	for i, a := range f.args {
		text, empty, err := evalNodes(a, ctx)
		if err != nil {
			return "", false, err
		}
		args[i] = text
		anyEmpty = anyEmpty || empty
	}

	switch {
	case f.name == "lower":
		return requireArgs(args, 1, strings.ToLower), anyEmpty, nil
	case f.name == "caps":
		return requireArgs(args, 1, strings.ToUpper), anyEmpty, nil
	case f.name == "trim":
		return requireArgs(args, 1, strings.TrimSpace), anyEmpty, nil
	case f.name == "abbreviate":
		if len(args) != 1 {
			return "", false, &types.TemplateError{Kind: types.TemplateBadFunctionCall, Msg: "abbreviate takes 1 argument"}
		}
		return abbreviate(args[0]), anyEmpty, nil
	case f.name == "replace":
		if len(args) != 3 {
			return "", false, &types.TemplateError{Kind: types.TemplateBadFunctionCall, Msg: "replace takes 3 arguments"}
		}
		return strings.ReplaceAll(args[0], args[1], args[2]), anyEmpty, nil
	case f.name == "swap-prefix":
		if len(args) != 2 {
			return "", false, &types.TemplateError{Kind: types.TemplateBadFunctionCall, Msg: "swap-prefix takes 2 arguments"}
		}
		return swapPrefix(args[0], args[1]), anyEmpty, nil
	case strings.HasPrefix(f.name, "cut-at-"):
		n, err := strconv.Atoi(strings.TrimPrefix(f.name, "cut-at-"))
		if err != nil {
			return "", false, &types.TemplateError{Kind: types.TemplateBadFunctionCall, Msg: "cut-at-N: bad N"}
		}
		if len(args) != 1 {
			return "", false, &types.TemplateError{Kind: types.TemplateBadFunctionCall, Msg: "cut-at-N takes 1 argument"}
		}
		return cutAt(args[0], n), anyEmpty, nil
	default:
		return "", false, &types.TemplateError{Kind: types.TemplateBadFunctionCall, Msg: "unknown function " + f.name}
	}
}

func requireArgs(args []string, n int, fn func(string) string) string {
	if len(args) != n {
		return ""
	}
	return fn(args[0])
}

// abbreviate joins the first letter of each whitespace-separated word,
// uppercased: "New York City" -> "NYC".
func abbreviate(s string) string {
	var b strings.Builder
	for _, w := range strings.Fields(s) {
		r := []rune(w)
		b.WriteString(strings.ToUpper(string(r[0])))
	}
	return b.String()
}

func cutAt(s string, n int) string {
	r := []rune(s)
	if n < 0 || n >= len(r) {
		return s
	}
	return string(r[:n])
}

// swapPrefix moves a leading "<prefix> " to the end as ", <prefix>":
// swapPrefix("The Beatles", "The") -> "Beatles, The".
func swapPrefix(s, prefix string) string {
	withSpace := prefix + " "
	if strings.HasPrefix(s, withSpace) {
		return s[len(withSpace):] + ", " + prefix
	}
	return s
}
