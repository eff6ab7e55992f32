// Package syntax parses TypeScript, TSX and JavaScript sources into a small
// language-neutral tree.
//
// Parsing is done with tree-sitter grammars. The resulting Node tree keeps
// only what heron inspects: object and array literals, string and boolean
// literals, calls, member accesses, properties, JSX elements, arrow
// functions, variable declarations and import declarations. Every other
// grammar node is kept as KindOther so positions and nesting survive.
//
// A Project is the parse context for one invocation:
//
//	proj := syntax.NewProject(syntax.WithLogger(log))
//	file, err := proj.Load("src/routes/Router.tsx")
//	if err != nil {
//		return err
//	}
//	for _, obj := range file.Root.Descendants(syntax.KindObject) {
//		if path, ok := obj.Property("path").StringValue(); ok {
//			fmt.Println(path)
//		}
//	}
package syntax
