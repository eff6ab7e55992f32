package syntax

// Kind discriminates the node shapes heron extracts from a source file.
// Handlers switch on Kind instead of probing grammar node types.
type Kind int

const (
	KindOther Kind = iota
	KindProgram
	KindObject
	KindArray
	KindString
	KindBool
	KindCall
	KindMember
	KindProperty
	KindJSX
	KindArrow
	KindIdentifier
	KindImport
	KindVariable
)

var kindNames = map[Kind]string{
	KindOther:      "other",
	KindProgram:    "program",
	KindObject:     "object",
	KindArray:      "array",
	KindString:     "string",
	KindBool:       "bool",
	KindCall:       "call",
	KindMember:     "member",
	KindProperty:   "property",
	KindJSX:        "jsx",
	KindArrow:      "arrow",
	KindIdentifier: "identifier",
	KindImport:     "import",
	KindVariable:   "variable",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Node is a language-neutral syntax node.
//
// The meaning of Name, Value and the role slots depends on Kind:
//
//	KindProperty   Name = key, Target = value
//	KindCall       Name = callee source text, Callee, Args
//	KindMember     Name = property name, Object
//	KindJSX        Name = tag name
//	KindArrow      Target = body
//	KindVariable   Name = declared identifier, Target = initializer
//	KindImport     Value = module specifier, Name = default binding
//	KindString     Value = literal value without quotes
//	KindBool       Value = "true" or "false"
//	KindIdentifier Name = identifier
type Node struct {
	Kind     Kind
	Type     string // grammar node type
	Name     string
	Value    string
	Line     int
	Parent   *Node
	Children []*Node

	Target *Node
	Callee *Node
	Args   []*Node
	Object *Node

	// src is the whole file; start and end delimit this node within it.
	src        []byte
	start, end uint32
}

// Text returns the source text the node spans.
func (n *Node) Text() string {
	if n == nil || n.src == nil {
		return ""
	}
	return string(n.src[n.start:n.end])
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the node just visited.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Descendants returns every node below n (n excluded) with the given kind,
// in document order.
func (n *Node) Descendants(kind Kind) []*Node {
	var out []*Node
	for _, child := range n.Children {
		child.Walk(func(d *Node) bool {
			if d.Kind == kind {
				out = append(out, d)
			}
			return true
		})
	}
	return out
}

// Is reports whether n is non-nil and of the given kind.
func (n *Node) Is(kind Kind) bool {
	return n != nil && n.Kind == kind
}

// Properties returns the key/value pairs of an object literal.
func (n *Node) Properties() []*Node {
	if !n.Is(KindObject) {
		return nil
	}
	var props []*Node
	for _, child := range n.Children {
		if child.Kind == KindProperty {
			props = append(props, child)
		}
	}
	return props
}

// Property returns the value of the first property with the given key, or nil.
func (n *Node) Property(key string) *Node {
	for _, prop := range n.Properties() {
		if prop.Name == key {
			return prop.Target
		}
	}
	return nil
}

// StringValue returns the literal value when n is a string literal.
func (n *Node) StringValue() (string, bool) {
	if !n.Is(KindString) {
		return "", false
	}
	return n.Value, true
}

// Elements returns the elements of an array literal.
func (n *Node) Elements() []*Node {
	if !n.Is(KindArray) {
		return nil
	}
	return n.Children
}

// JSXChildren returns the JSX elements nested directly inside a JSX element.
func (n *Node) JSXChildren() []*Node {
	if !n.Is(KindJSX) {
		return nil
	}
	var out []*Node
	for _, child := range n.Children {
		if child.Kind == KindJSX {
			out = append(out, child)
		}
	}
	return out
}

// InnermostJSX follows the first nested JSX element until it reaches one that
// wraps nothing. For <Guard><Page /></Guard> it returns the Page element.
func (n *Node) InnermostJSX() *Node {
	cur := n
	for {
		children := cur.JSXChildren()
		if len(children) == 0 {
			return cur
		}
		cur = children[0]
	}
}
