package logger

import "sync"

// Entry is a single message captured by a Recorder.
type Entry struct {
	Level   Level
	Message string
	Fields  []Field
}

// Field returns the value of the named field and whether it was present.
func (e Entry) Field(key string) (any, bool) {
	for i := len(e.Fields) - 1; i >= 0; i-- {
		if e.Fields[i].Key == key {
			return e.Fields[i].Value, true
		}
	}
	return nil, false
}

// Recorder is a Logger that keeps every entry in memory.
// Tests use it to assert on diagnostics without touching real output.
type Recorder struct {
	mu      *sync.Mutex
	level   Level
	fields  []Field
	entries *[]Entry
}

// NewRecorder creates a Recorder that captures all levels.
func NewRecorder() *Recorder {
	entries := make([]Entry, 0)
	return &Recorder{
		mu:      &sync.Mutex{},
		level:   LevelDebug,
		entries: &entries,
	}
}

func (r *Recorder) Debug(msg string, fields ...Field) { r.record(LevelDebug, msg, fields) }
func (r *Recorder) Info(msg string, fields ...Field)  { r.record(LevelInfo, msg, fields) }
func (r *Recorder) Warn(msg string, fields ...Field)  { r.record(LevelWarn, msg, fields) }
func (r *Recorder) Error(msg string, fields ...Field) { r.record(LevelError, msg, fields) }

// SetLevel sets the minimum level that is recorded.
func (r *Recorder) SetLevel(level Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.level = level
}

// WithFields returns a Recorder writing into the same entry list.
func (r *Recorder) WithFields(fields ...Field) Logger {
	r.mu.Lock()
	defer r.mu.Unlock()

	merged := make([]Field, 0, len(r.fields)+len(fields))
	merged = append(merged, r.fields...)
	merged = append(merged, fields...)

	return &Recorder{
		mu:      r.mu,
		level:   r.level,
		fields:  merged,
		entries: r.entries,
	}
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, len(*r.entries))
	copy(out, *r.entries)
	return out
}

// Messages returns the recorded messages at the given level.
func (r *Recorder) Messages(level Level) []string {
	var msgs []string
	for _, e := range r.Entries() {
		if e.Level == level {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}

func (r *Recorder) record(level Level, msg string, fields []Field) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if level < r.level {
		return
	}

	all := make([]Field, 0, len(r.fields)+len(fields))
	all = append(all, r.fields...)
	all = append(all, fields...)
	*r.entries = append(*r.entries, Entry{Level: level, Message: msg, Fields: all})
}
