// Package logger provides the structured, leveled logger shared by heron's
// engines.
//
// Every engine takes a Logger through a WithLogger option rather than
// reaching for a global. Use NewLogger for terminal output, NewSilentLogger
// to discard everything, and NewRecorder in tests to assert on diagnostics:
//
//	rec := logger.NewRecorder()
//	p := source.NewParser(root, source.WithLogger(rec))
//	_, _ = p.ParseMenus("")
//	for _, msg := range rec.Messages(logger.LevelWarn) {
//	    fmt.Println(msg)
//	}
package logger
