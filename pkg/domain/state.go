package domain

// Stage is the position of a participant in the quiz lifecycle.
type Stage string

const (
	StageAwaitingNickname Stage = "awaiting_nickname" // Initial
	StageInProgress       Stage = "in_progress"       // Answering questions
	StageCompleted        Stage = "completed"         // Sink state, result known
)

// State is the snapshot of a single participant's run.
// The flow engine never mutates a State in place; every transition returns a copy.
type State struct {
	Stage Stage `json:"stage"`

	// Nickname is set once Begin succeeds and cleared on Restart.
	Nickname string `json:"nickname,omitempty"`

	// QuestionID is the current question while Stage == StageInProgress.
	QuestionID string `json:"question_id,omitempty"`

	// ResultTitle is the terminal result once Stage == StageCompleted.
	ResultTitle string `json:"result_title,omitempty"`

	// History lists the questions visited, in order.
	History []string `json:"history,omitempty"`
}

// NewState returns a fresh state awaiting a nickname.
func NewState() *State {
	return &State{Stage: StageAwaitingNickname}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := *s
	c.History = append([]string(nil), s.History...)
	return &c
}
