package message

// Log is an append-only, insertion-ordered list of entries.
type Log struct {
	entries []Entry
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append adds entry to the end of the log.
func (l *Log) Append(entry Entry) {
	l.entries = append(l.entries, entry)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Entries returns a copy of the log in insertion order.
func (l *Log) Entries() []Entry {
	if l == nil || len(l.entries) == 0 {
		return nil
	}
	dup := make([]Entry, len(l.entries))
	copy(dup, l.entries)
	return dup
}

// Last returns the most recent entry.
func (l *Log) Last() (Entry, bool) {
	if l.Len() == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}
