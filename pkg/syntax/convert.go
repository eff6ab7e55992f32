package syntax

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// converter turns a tree-sitter tree into heron Nodes. Nodes share src and
// keep only their byte offsets into it.
type converter struct {
	src []byte
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

func sameSpan(a, b *sitter.Node) bool {
	return a != nil && b != nil &&
		a.StartByte() == b.StartByte() &&
		a.EndByte() == b.EndByte() &&
		a.Type() == b.Type()
}

// convert builds the Node for n and its named descendants. Comments are
// dropped and parenthesized expressions are replaced by their contents.
func (c *converter) convert(n *sitter.Node, parent *Node) *Node {
	if n == nil || n.Type() == "comment" {
		return nil
	}
	if n.Type() == "parenthesized_expression" && n.NamedChildCount() == 1 {
		return c.convert(n.NamedChild(0), parent)
	}

	node := &Node{
		Kind:   kindOf(n.Type()),
		Type:   n.Type(),
		Line:   int(n.StartPoint().Row) + 1,
		Parent: parent,
		src:    c.src,
		start:  n.StartByte(),
		end:    n.EndByte(),
	}

	// pairs remembers which converted child came from which grammar node so
	// role slots can point at the same *Node as Children.
	type pair struct {
		raw  *sitter.Node
		conv *Node
	}
	var pairs []pair
	for i := 0; i < int(n.NamedChildCount()); i++ {
		raw := n.NamedChild(i)
		conv := c.convert(raw, node)
		if conv == nil {
			continue
		}
		node.Children = append(node.Children, conv)
		pairs = append(pairs, pair{raw: raw, conv: conv})
	}

	field := func(name string) *Node {
		raw := n.ChildByFieldName(name)
		if raw == nil {
			return nil
		}
		for _, p := range pairs {
			if sameSpan(p.raw, raw) {
				return p.conv
			}
		}
		return nil
	}

	switch node.Kind {
	case KindString:
		node.Value = unquote(c.text(n))

	case KindBool:
		node.Value = c.text(n)

	case KindIdentifier:
		node.Name = c.text(n)

	case KindProperty:
		if key := n.ChildByFieldName("key"); key != nil {
			node.Name = propertyKey(key, c.src)
		}
		node.Target = field("value")

	case KindCall:
		node.Callee = field("function")
		if node.Callee != nil {
			node.Name = node.Callee.Text()
		} else if fn := n.ChildByFieldName("function"); fn != nil {
			node.Name = c.text(fn)
		}
		if args := field("arguments"); args != nil {
			node.Args = args.Children
		}

	case KindMember:
		node.Object = field("object")
		if prop := n.ChildByFieldName("property"); prop != nil {
			node.Name = c.text(prop)
		}

	case KindArrow:
		node.Target = field("body")

	case KindVariable:
		if name := n.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
			node.Name = c.text(name)
		}
		node.Target = field("value")

	case KindJSX:
		node.Name = c.jsxTagName(n)

	case KindImport:
		if source := n.ChildByFieldName("source"); source != nil {
			node.Value = unquote(c.text(source))
		}
		node.Name = c.defaultImportBinding(n)
	}

	return node
}

func kindOf(grammarType string) Kind {
	switch grammarType {
	case "program":
		return KindProgram
	case "object":
		return KindObject
	case "array":
		return KindArray
	case "string":
		return KindString
	case "true", "false":
		return KindBool
	case "call_expression":
		return KindCall
	case "member_expression":
		return KindMember
	case "pair":
		return KindProperty
	case "jsx_element", "jsx_self_closing_element":
		return KindJSX
	case "arrow_function":
		return KindArrow
	case "identifier", "property_identifier":
		return KindIdentifier
	case "import_statement":
		return KindImport
	case "variable_declarator":
		return KindVariable
	default:
		return KindOther
	}
}

// jsxTagName reads the tag of <Tag ...> or <Tag />.
func (c *converter) jsxTagName(n *sitter.Node) string {
	tag := n
	if n.Type() == "jsx_element" {
		tag = nil
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if child := n.NamedChild(i); child.Type() == "jsx_opening_element" {
				tag = child
				break
			}
		}
		if tag == nil {
			return ""
		}
	}
	if name := tag.ChildByFieldName("name"); name != nil {
		return c.text(name)
	}
	if tag.NamedChildCount() > 0 {
		return c.text(tag.NamedChild(0))
	}
	return ""
}

// defaultImportBinding returns Foo for `import Foo from '...'` and
// `import Foo, { bar } from '...'`.
func (c *converter) defaultImportBinding(n *sitter.Node) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause.Type() != "import_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			if id := clause.NamedChild(j); id.Type() == "identifier" {
				return c.text(id)
			}
		}
	}
	return ""
}

func propertyKey(key *sitter.Node, src []byte) string {
	text := key.Content(src)
	if key.Type() == "string" {
		return unquote(text)
	}
	return text
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' || first == '"' || first == '`') && last == first {
			return s[1 : len(s)-1]
		}
	}
	return strings.Trim(s, `'"`)
}
