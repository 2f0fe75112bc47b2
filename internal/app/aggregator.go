package app

import "survey-quiz-service/internal/domain"

// QuizGroup is the answers of one user that belong to one quiz.
type QuizGroup struct {
	QuizID   int64
	QuizName string
	Entries  []domain.AnswerRecord
}

// Aggregator folds a stream of answer records, ordered by quiz, into quiz
// groups. Records are fed one at a time through Add.
//
// Groups are flushed when the quiz id changes between adjacent records. A quiz
// id that shows up again after its group was flushed is appended to that group,
// so unsorted input never yields two groups for the same quiz. Groups keep the
// order in which their quiz was first seen.
type Aggregator struct {
	current  int64
	started  bool
	pending  []domain.AnswerRecord
	pendName string

	groups []QuizGroup
	index  map[int64]int
}

func NewAggregator() *Aggregator {
	return &Aggregator{index: make(map[int64]int)}
}

// Add consumes the next record of the stream.
func (a *Aggregator) Add(record domain.AnswerRecord) {
	if !a.started {
		a.started = true
		a.current = record.QuizID
		a.pendName = record.QuizName
		a.pending = append(a.pending, record)
		return
	}

	if record.QuizID == a.current {
		a.pending = append(a.pending, record)
		return
	}

	a.flush()
	a.current = record.QuizID
	a.pendName = record.QuizName
	a.pending = append(a.pending, record)
}

// Groups flushes the last open group and returns all groups. The aggregator
// can keep consuming records afterwards.
func (a *Aggregator) Groups() []QuizGroup {
	a.flush()
	out := make([]QuizGroup, len(a.groups))
	copy(out, a.groups)
	return out
}

func (a *Aggregator) flush() {
	if len(a.pending) == 0 {
		return
	}
	entries := make([]domain.AnswerRecord, len(a.pending))
	copy(entries, a.pending)
	a.pending = a.pending[:0]

	if pos, ok := a.index[a.current]; ok {
		a.groups[pos].Entries = append(a.groups[pos].Entries, entries...)
		return
	}
	a.index[a.current] = len(a.groups)
	a.groups = append(a.groups, QuizGroup{
		QuizID:   a.current,
		QuizName: a.pendName,
		Entries:  entries,
	})
}

// AggregateRecords is a convenience wrapper around Aggregator for records
// already held in memory.
func AggregateRecords(records []domain.AnswerRecord) []QuizGroup {
	agg := NewAggregator()
	for _, record := range records {
		agg.Add(record)
	}
	return agg.Groups()
}
