// Package interview sequences primary and follow-up questions for one
// candidate and records every answer with enough metadata to rebuild the
// conversation afterwards.
//
// A Session is not safe for concurrent use; the owner serializes access.
package interview

import (
	"math"
	"strings"
)

// Transition reports what a call to Submit did.
type Transition int

const (
	// Ignored means nothing changed (blank text or a finished session).
	Ignored Transition = iota
	// FollowUpShown means the current primary's follow-up is now active.
	FollowUpShown
	// Advanced means the next primary question is now active.
	Advanced
	// Completed means the last answer was recorded and the log was emitted.
	Completed
)

func (t Transition) String() string {
	switch t {
	case FollowUpShown:
		return "follow_up"
	case Advanced:
		return "advanced"
	case Completed:
		return "completed"
	default:
		return "ignored"
	}
}

type Session struct {
	questions []Question
	lookup    map[string]string // question id -> text, primaries and follow-ups

	current    int
	onFollowUp bool
	answers    []Answer
	draft      string

	complete   bool
	emitted    bool
	onComplete func([]Answer)
}

type Option func(*Session)

// WithOnComplete registers the receiver of the final answer log. It is
// called at most once per session.
func WithOnComplete(fn func([]Answer)) Option {
	return func(s *Session) { s.onComplete = fn }
}

func NewSession(questions []Question, opts ...Option) *Session {
	s := &Session{
		questions: append([]Question(nil), questions...),
		lookup:    make(map[string]string, len(questions)*2),
	}
	for _, q := range s.questions {
		if _, ok := s.lookup[q.ID]; !ok {
			s.lookup[q.ID] = q.Question
		}
		for _, f := range q.FollowUpQuestions {
			if _, ok := s.lookup[f.ID]; !ok {
				s.lookup[f.ID] = f.Question
			}
		}
	}
	for _, o := range opts {
		o(s)
	}
	if len(s.questions) == 0 {
		s.complete = true
	}
	return s
}

func (s *Session) Questions() []Question {
	return append([]Question(nil), s.questions...)
}

func (s *Session) Total() int        { return len(s.questions) }
func (s *Session) Index() int        { return s.current }
func (s *Session) OnFollowUp() bool  { return s.onFollowUp }
func (s *Session) IsComplete() bool  { return s.complete }
func (s *Session) Draft() string     { return s.draft }
func (s *Session) SetDraft(t string) { s.draft = t }

func (s *Session) Answers() []Answer {
	return append([]Answer(nil), s.answers...)
}

// Current returns the active primary question, or false once complete.
func (s *Session) Current() (Question, bool) {
	if s.complete || s.current >= len(s.questions) {
		return Question{}, false
	}
	return s.questions[s.current], true
}

// ActiveFollowUp returns the follow-up awaiting an answer, if any.
func (s *Session) ActiveFollowUp() (FollowUp, bool) {
	if !s.onFollowUp {
		return FollowUp{}, false
	}
	q, ok := s.Current()
	if !ok {
		return FollowUp{}, false
	}
	return q.activeFollowUp()
}

// QuestionText resolves a primary or follow-up id to its text.
func (s *Session) QuestionText(id string) (string, bool) {
	text, ok := s.lookup[id]
	return text, ok
}

// Submit records text as the answer to whatever is currently asked and
// moves the session forward.
func (s *Session) Submit(text string) Transition {
	if strings.TrimSpace(text) == "" || s.complete {
		return Ignored
	}
	q := s.questions[s.current]

	a := Answer{QuestionID: q.ID, Answer: text}
	if s.onFollowUp {
		if f, ok := q.activeFollowUp(); ok {
			a.QuestionID = f.ID
		}
		a.IsFollowUp = true
		a.ParentQuestionID = q.ID
	}
	s.answers = append(s.answers, a)
	s.draft = ""

	last := s.current == len(s.questions)-1
	switch {
	case s.onFollowUp:
		s.onFollowUp = false
		if last {
			return s.finish()
		}
		s.current++
		return Advanced
	case q.HasFollowUp && len(q.FollowUpQuestions) > 0:
		s.onFollowUp = true
		return FollowUpShown
	case !last:
		s.current++
		return Advanced
	default:
		return s.finish()
	}
}

// SubmitDraft submits the text currently being composed.
func (s *Session) SubmitDraft() Transition {
	return s.Submit(s.draft)
}

// Finish ends the session early, keeping whatever was answered so far.
// It reports whether this call emitted the answer log.
func (s *Session) Finish() bool {
	if s.emitted {
		return false
	}
	s.onFollowUp = false
	return s.finish() == Completed
}

func (s *Session) finish() Transition {
	s.complete = true
	if s.emitted {
		return Completed
	}
	s.emitted = true
	if s.onComplete != nil {
		s.onComplete(s.Answers())
	}
	return Completed
}

// Progress is (index + 0.5 while on a follow-up) / total, and 1 once the
// session is complete.
func (s *Session) Progress() float64 {
	if s.complete || len(s.questions) == 0 {
		return 1
	}
	pos := float64(s.current)
	if s.onFollowUp {
		pos += 0.5
	}
	return pos / float64(len(s.questions))
}

// ProgressPercent is Progress rounded for display.
func (s *Session) ProgressPercent() int {
	return int(math.Round(s.Progress() * 100))
}
