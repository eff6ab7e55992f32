package syntax

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/heron/pkg/logger"
)

func source(s string) []byte {
	return []byte(strings.TrimLeft(dedent.Dedent(s), "\n"))
}

func parse(t *testing.T, path, src string) *File {
	t.Helper()
	f, err := NewProject().ParseSource(path, source(src))
	require.NoError(t, err)
	require.NotNil(t, f.Root)
	return f
}

func TestLanguageFor(t *testing.T) {
	tests := []struct {
		path string
		want Language
		ok   bool
	}{
		{"Router.tsx", LanguageTSX, true},
		{"api/client.ts", LanguageTypeScript, true},
		{"types.d.ts", LanguageTypeScript, true},
		{"server/index.js", LanguageJavaScript, true},
		{"Page.jsx", LanguageJavaScript, true},
		{"config.mjs", LanguageJavaScript, true},
		{"styles.css", "", false},
		{"package.json", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := LanguageFor(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSource_RouteObjects(t *testing.T) {
	f := parse(t, "Router.tsx", `
		import Home from './pages/Home';

		const Records = Loadable(lazy(() => import('./features/records/RecordsPage')));

		const routes = [
		  { path: '/', element: <Home /> },
		  {
		    path: '/apps/records',
		    element: (
		      <AuthGuard>
		        <Records />
		      </AuthGuard>
		    ),
		    hidden: false,
		  },
		];
	`)

	assert.False(t, f.HasErrors)
	assert.Equal(t, LanguageTSX, f.Language)

	var paths []string
	for _, obj := range f.Root.Descendants(KindObject) {
		if p, ok := obj.Property("path").StringValue(); ok {
			paths = append(paths, p)
		}
	}
	assert.Equal(t, []string{"/", "/apps/records"}, paths)

	objects := f.Root.Descendants(KindObject)
	require.Len(t, objects, 2)

	home := objects[0].Property("element")
	require.True(t, home.Is(KindJSX))
	assert.Equal(t, "Home", home.Name)
	assert.Equal(t, 6, objects[0].Properties()[0].Line)

	guard := objects[1].Property("element")
	require.True(t, guard.Is(KindJSX), "parenthesized JSX is unwrapped")
	assert.Equal(t, "AuthGuard", guard.Name)
	require.Len(t, guard.JSXChildren(), 1)
	assert.Equal(t, "Records", guard.InnermostJSX().Name)

	hidden := objects[1].Property("hidden")
	require.True(t, hidden.Is(KindBool))
	assert.Equal(t, "false", hidden.Value)
}

func TestParseSource_CallsAndVariables(t *testing.T) {
	f := parse(t, "Router.tsx", `
		const Records = Loadable(lazy(() => import('./features/records/RecordsPage')));
	`)

	vars := f.Root.Descendants(KindVariable)
	require.Len(t, vars, 1)
	assert.Equal(t, "Records", vars[0].Name)

	outer := vars[0].Target
	require.True(t, outer.Is(KindCall))
	assert.Equal(t, "Loadable", outer.Name)
	require.Len(t, outer.Args, 1)

	inner := outer.Args[0]
	require.True(t, inner.Is(KindCall))
	assert.Equal(t, "lazy", inner.Name)
	require.Len(t, inner.Args, 1)

	arrow := inner.Args[0]
	require.True(t, arrow.Is(KindArrow))
	body := arrow.Target
	require.True(t, body.Is(KindCall))
	assert.Equal(t, "import", body.Name)
	require.Len(t, body.Args, 1)

	spec, ok := body.Args[0].StringValue()
	require.True(t, ok)
	assert.Equal(t, "./features/records/RecordsPage", spec)
}

func TestParseSource_MemberCalls(t *testing.T) {
	f := parse(t, "src/hooks/useAuth.ts", `
		export function save(t: string) {
		  localStorage.setItem('jwt_token', t);
		}
	`)

	calls := f.Root.Descendants(KindCall)
	require.Len(t, calls, 1)

	call := calls[0]
	assert.Equal(t, "localStorage.setItem", call.Name)
	require.True(t, call.Callee.Is(KindMember))
	assert.Equal(t, "setItem", call.Callee.Name)
	assert.Equal(t, "localStorage", call.Callee.Object.Name)
	assert.Equal(t, 2, call.Line)

	key, ok := call.Args[0].StringValue()
	require.True(t, ok)
	assert.Equal(t, "jwt_token", key)
}

func TestFile_Imports(t *testing.T) {
	f := parse(t, "Page.tsx", `
		import React from 'react';
		import { useRecords } from '../hooks/useRecords';
		import Table, { Column } from '@/components/Table';
		import './Page.css';

		export default function Page() {
		  return null;
		}
	`)

	imports := f.Imports()
	require.Len(t, imports, 4)

	var specs, bindings []string
	for _, imp := range imports {
		specs = append(specs, imp.Value)
		bindings = append(bindings, imp.Name)
	}
	assert.Equal(t, []string{"react", "../hooks/useRecords", "@/components/Table", "./Page.css"}, specs)
	assert.Equal(t, []string{"React", "", "Table", ""}, bindings)
	assert.Equal(t, 3, imports[2].Line)
}

func TestParseSource_CommentsDropped(t *testing.T) {
	f := parse(t, "menu.ts", `
		export const items = [
		  // { label: 'Hidden', path: '/hidden' },
		  { label: 'Shown', path: '/shown' },
		];
	`)

	objects := f.Root.Descendants(KindObject)
	require.Len(t, objects, 1)
	label, _ := objects[0].Property("label").StringValue()
	assert.Equal(t, "Shown", label)
}

func TestParseSource_NestedNodesShareSource(t *testing.T) {
	const depth = 200
	literal := "'" + strings.Repeat("a", 100_000) + "'"
	src := "export const x = " + strings.Repeat("[", depth) + literal + strings.Repeat("]", depth) + ";\n"

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	f, err := NewProject().ParseSource("nested.ts", []byte(src))
	runtime.ReadMemStats(&after)
	require.NoError(t, err)

	// Copying the span into every array would cost depth × 100 KB.
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(4<<20))

	arrays := f.Root.Descendants(KindArray)
	require.Len(t, arrays, depth)
	assert.Equal(t, strings.Repeat("[", depth)+literal+strings.Repeat("]", depth), arrays[0].Text())

	strs := f.Root.Descendants(KindString)
	require.Len(t, strs, 1)
	assert.Equal(t, literal, strs[0].Text())
	assert.Len(t, strs[0].Value, 100_000)
}

func TestParseSource_SyntaxErrorsAreNotFatal(t *testing.T) {
	rec := logger.NewRecorder()
	proj := NewProject(WithLogger(rec))

	f, err := proj.ParseSource("broken.ts", source(`
		const routes = [{ path: '/ok' },
		function (
	`))
	require.NoError(t, err)
	assert.True(t, f.HasErrors)
	assert.NotEmpty(t, rec.Messages(logger.LevelDebug))
}

func TestParseSource_Errors(t *testing.T) {
	proj := NewProject(WithMaxFileSize(16))

	_, err := proj.ParseSource("styles.css", []byte("a{}"))
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)

	_, err = proj.ParseSource("big.ts", []byte(strings.Repeat("x", 17)))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = proj.ParseSource("bad.ts", []byte{0xff, 0xfe, 0x00})
	assert.ErrorIs(t, err, ErrInvalidContent)
}

func TestProject_LoadCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Router.tsx")
	require.NoError(t, os.WriteFile(path, source(`
		export const routes = [{ path: '/a' }];
	`), 0o644))

	proj := NewProject(WithCacheSize(4))

	first, err := proj.Load(path)
	require.NoError(t, err)
	second, err := proj.Load(path)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = proj.Load(filepath.Join(dir, "Missing.tsx"))
	assert.Error(t, err)

	_, err = proj.Load(dir)
	assert.Error(t, err)
}
