package tutor

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/synthtutor/internal/api"
)

// Session is the whole client-side tutoring state. Every field changes only
// through the methods below.
type Session struct {
	id         string
	state      State
	transcript []api.Message
	name       string
	grade      string
	student    *api.Student
	inFlight   bool
	modules    []Module
	progress   []api.ProgressRecord
	selected   *Module
	log        *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithID overrides the generated session id.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// NewSession starts a conversation in the welcome state with the greeting
// already in the transcript.
func NewSession(opts ...Option) *Session {
	s := &Session{
		id:    uuid.NewString(),
		state: StateWelcome,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, line := range Greeting {
		s.appendTutor(line)
	}
	return s
}

func (s *Session) ID() string     { return s.id }
func (s *Session) State() State   { return s.state }
func (s *Session) InFlight() bool { return s.inFlight }

// Transcript returns a copy of the message log.
func (s *Session) Transcript() []api.Message {
	return append([]api.Message(nil), s.transcript...)
}

// Student returns the created student, if any.
func (s *Session) Student() (api.Student, bool) {
	if s.student == nil {
		return api.Student{}, false
	}
	return *s.student, true
}

// Draft returns the name and grade collected so far.
func (s *Session) Draft() (name, grade string) {
	return s.name, s.grade
}

func (s *Session) appendTutor(content string) {
	s.transcript = append(s.transcript, api.Message{Role: api.RoleTutor, Content: content})
}

func (s *Session) appendStudent(content string) {
	s.transcript = append(s.transcript, api.Message{Role: api.RoleStudent, Content: content})
}

// StepKind says what work a Step needs.
type StepKind int

const (
	// StepScripted needs no I/O; the reply is canned.
	StepScripted StepKind = iota
	// StepCreateStudent registers the student.
	StepCreateStudent
	// StepChat asks the tutor for a reply.
	StepChat
)

// Step is the pending work triggered by one accepted message. It carries
// copies of everything it needs and is safe to run on another goroutine.
type Step struct {
	Kind StepKind

	reply   string
	next    State
	create  api.StudentCreate
	chat    api.ChatRequest
	student api.Student
}

// Outcome is the result of running a Step.
type Outcome struct {
	Replies []string
	Student *api.Student
	Err     error

	// Next is applied only when Transition is set.
	Next       State
	Transition bool
}

// Send accepts a student message. The message is appended to the transcript
// before Send returns; the returned Step performs the rest and its Outcome
// must be passed to Resolve.
func (s *Session) Send(text string) (Step, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Step{}, ErrEmptyInput
	}
	if s.inFlight {
		return Step{}, ErrBusy
	}
	if s.state == StateModule {
		return Step{}, ErrInputSuppressed
	}

	s.appendStudent(text)
	s.inFlight = true

	switch s.state {
	case StateWelcome:
		s.name = text
		return Step{Kind: StepScripted, reply: gradePrompt(text), next: StateGrade}, nil
	case StateGrade:
		s.grade = text
		return Step{Kind: StepScripted, reply: interestsPrompt, next: StateInterests}, nil
	case StateInterests:
		return Step{Kind: StepCreateStudent, create: api.StudentCreate{
			Name:      s.name,
			Grade:     s.grade,
			Interests: ParseInterests(text),
		}}, nil
	default:
		st, _ := s.Student()
		return Step{Kind: StepChat, student: st, chat: api.ChatRequest{
			StudentID: st.ID,
			Message:   text,
			Context:   s.Transcript(),
		}}, nil
	}
}

// Interests returns the parsed interests a create-student step will send.
func (st Step) Interests() []string { return st.create.Interests }

// Run performs the step's I/O. Failures are logged and turned into tutor
// messages; Run itself never fails.
func (st Step) Run(ctx context.Context, svc Services) Outcome {
	log := svc.logger()

	switch st.Kind {
	case StepCreateStudent:
		student, err := svc.Students.CreateStudent(ctx, st.create)
		if err != nil {
			log.Error("create student failed", zap.String("name", st.create.Name), zap.Error(err))
			return Outcome{Replies: []string{saveFailed}, Err: err, Next: StateInterests, Transition: true}
		}
		return Outcome{
			Student:    student,
			Replies:    []string{interestsAck(st.create.Interests), getStarted},
			Next:       StateLearning,
			Transition: true,
		}

	case StepChat:
		reply, err := svc.Chat.Reply(ctx, st.student, st.chat)
		if err != nil {
			log.Error("chat failed", zap.String("student_id", st.chat.StudentID), zap.Error(err))
			return Outcome{Replies: []string{chatFailed}, Err: err}
		}
		return Outcome{Replies: []string{reply}}

	default:
		return Outcome{Replies: []string{st.reply}, Next: st.next, Transition: true}
	}
}

// Resolve applies a finished step: it appends the replies, moves to the next
// state if the step named one and re-enables input.
func (s *Session) Resolve(o Outcome) {
	if o.Student != nil {
		student := *o.Student
		s.student = &student
	}
	for _, r := range o.Replies {
		s.appendTutor(r)
	}
	if o.Transition {
		s.state = o.Next
	}
	s.inFlight = false
}
