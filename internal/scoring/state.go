package scoring

import (
	"sync"

	"github.com/beelink/governance-backend/internal/models"
)

// Phase is the lifecycle of one submission cycle. A new submission moves
// straight from Succeeded or Failed back to Submitting; there is no forced
// return to Idle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// Submission tracks the quiz-evaluation path: the current phase, the latest
// results, and a sequence number that guards against a slow earlier request
// overwriting a faster later one. There is no cancellation of in-flight
// work; completions for anything but the most recent sequence are dropped.
type Submission struct {
	mu      sync.Mutex
	seq     uint64
	phase   Phase
	results []models.ResultItem
	errMsg  string
}

func NewSubmission() *Submission {
	return &Submission{phase: PhaseIdle}
}

// Begin starts a new cycle and returns its sequence number. The guard is a
// no-op, not an error: with an empty quiz or a mismatched answer count the
// state is left untouched and ok is false.
func (s *Submission) Begin(quizLen, answersLen int) (seq uint64, ok bool) {
	if quizLen == 0 || answersLen != quizLen {
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.phase = PhaseSubmitting
	return s.seq, true
}

// Succeed records results for the given cycle. Stale completions (a newer
// cycle has begun since seq was issued) are ignored.
func (s *Submission) Succeed(seq uint64, results []models.ResultItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.phase = PhaseSucceeded
	s.results = results
	s.errMsg = ""
	return true
}

// Fail records an error for the given cycle, discarding any partial
// results. Stale failures are ignored the same way stale successes are.
func (s *Submission) Fail(seq uint64, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.phase = PhaseFailed
	s.results = nil
	s.errMsg = msg
	return true
}

// SubmissionView is a serializable snapshot of the submission state.
type SubmissionView struct {
	Phase   Phase               `json:"phase"`
	Results []models.ResultItem `json:"results,omitempty"`
	Error   string              `json:"error,omitempty"`
}

func (s *Submission) View() SubmissionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SubmissionView{Phase: s.phase, Results: s.results, Error: s.errMsg}
}

// ScoreSlot is the same latest-wins discipline for the single-score paths
// (free text and governance examples). Each path owns its own slot, so the
// paths can be exercised concurrently without interference.
type ScoreSlot struct {
	mu     sync.Mutex
	seq    uint64
	score  NormalizedScore
	errMsg string
}

// Begin issues a sequence number for a new scoring call.
func (s *ScoreSlot) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// Set stores the score for seq unless a newer call has begun.
func (s *ScoreSlot) Set(seq uint64, score NormalizedScore) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.score = score
	s.errMsg = ""
	return true
}

// SetError stores a failure for seq unless a newer call has begun.
func (s *ScoreSlot) SetError(seq uint64, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.score = nil
	s.errMsg = msg
	return true
}

// ScoreSlotView is a serializable snapshot of one score path.
type ScoreSlotView struct {
	Score NormalizedScore `json:"score,omitempty"`
	Error string          `json:"error,omitempty"`
}

func (s *ScoreSlot) View() ScoreSlotView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ScoreSlotView{Score: s.score, Error: s.errMsg}
}
