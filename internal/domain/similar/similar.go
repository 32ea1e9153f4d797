package similar

// Document is one entry of a ranked similarity list.
type Document struct {
	ID    string  `json:"id" yaml:"id"`
	Score float64 `json:"score" yaml:"score"`
}

// Table maps a document id to its ranked similarity list.
type Table map[string][]Document

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for id, list := range t {
		cp := make([]Document, len(list))
		copy(cp, list)
		out[id] = cp
	}
	return out
}

// Slice returns list[start : start+size] clamped to the list bounds.
// A negative size means no upper bound.
func Slice(list []Document, start, size int) []Document {
	if start < 0 {
		start = 0
	}
	if start >= len(list) || size == 0 {
		return []Document{}
	}
	end := len(list)
	if size > 0 && size < end-start {
		end = start + size
	}
	out := make([]Document, end-start)
	copy(out, list[start:end])
	return out
}
