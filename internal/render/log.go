package render

import (
	"iter"
	"slices"
)

// Record is one logged render call. Payload is the log's own copy.
type Record struct {
	Tag     Tag
	Payload Payload
	Mode    DisplayMode

	desc Descriptor
}

// Log is the ordered list of render calls made on one display, oldest
// first. It is not safe for concurrent use; Display guards it.
type Log struct {
	records []Record
}

// Append adds r to the end of the log. The log takes ownership of
// r.Payload and frees it through d.
func (l *Log) Append(d Descriptor, r Record) {
	r.desc = d
	l.records = append(l.records, r)
}

// Remove frees and drops the record at index i.
func (l *Log) Remove(i int) {
	if i < 0 || i >= len(l.records) {
		return
	}
	r := l.records[i]
	l.records = slices.Delete(l.records, i, i+1)
	r.desc.Free(r.Payload)
}

// Clear frees every record and empties the log.
func (l *Log) Clear() {
	records := l.records
	l.records = nil
	for _, r := range records {
		r.desc.Free(r.Payload)
	}
}

// Len returns the number of records.
func (l *Log) Len() int { return len(l.records) }

// All iterates over the records oldest first.
func (l *Log) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i, r := range l.records {
			if !yield(i, r) {
				return
			}
		}
	}
}
