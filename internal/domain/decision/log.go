package decision

// Summary aggregates a log for reports
type Summary struct {
	Total      int          `json:"total"`
	Applied    int          `json:"applied"`
	Rejected   int          `json:"rejected"`
	NoEffect   int          `json:"no_effect"`
	TotalScore float64      `json:"total_score"`
	ByKind     map[Kind]int `json:"by_kind"`
}

// Log is the in-memory append-only decision history of one run
type Log struct {
	entries []*Decision
}

// NewLog creates an empty log
func NewLog() *Log {
	return &Log{}
}

// Append records a decision
func (l *Log) Append(d *Decision) {
	l.entries = append(l.entries, d)
}

// Len returns the number of recorded decisions
func (l *Log) Len() int {
	return len(l.entries)
}

// All returns every decision in append order
func (l *Log) All() []*Decision {
	out := make([]*Decision, len(l.entries))
	copy(out, l.entries)
	return out
}

// Recent returns up to n of the latest decisions, newest last
func (l *Log) Recent(n int) []*Decision {
	if n <= 0 {
		return nil
	}
	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]*Decision, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Summarize aggregates the log
func (l *Log) Summarize() Summary {
	s := Summary{ByKind: make(map[Kind]int)}
	for _, d := range l.entries {
		s.Total++
		s.TotalScore += d.score
		s.ByKind[d.kind]++
		switch d.outcome {
		case OutcomeApplied:
			s.Applied++
		case OutcomeRejected:
			s.Rejected++
		case OutcomeNoEffect:
			s.NoEffect++
		}
	}
	return s
}
