package tutor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/abhisek/synthtutor/internal/api"
)

// say sends text and resolves the resulting step synchronously.
func say(t *testing.T, s *Session, svc Services, text string) Outcome {
	t.Helper()
	step, err := s.Send(text)
	if err != nil {
		t.Fatalf("Send(%q): %v", text, err)
	}
	out := step.Run(context.Background(), svc)
	s.Resolve(out)
	return out
}

// onboard runs the three onboarding answers and loads the catalog.
func onboard(t *testing.T, fb *fakeBackend) *Session {
	t.Helper()
	s := NewSession()
	svc := fb.services()
	say(t, s, svc, "Ava")
	say(t, s, svc, "5")
	say(t, s, svc, "math, space.")
	if s.State() != StateLearning {
		t.Fatalf("state after onboarding = %v, want learning", s.State())
	}
	st, _ := s.Student()
	cat, err := FetchCatalog(context.Background(), fb, fb, st.ID, nil)
	if err != nil {
		t.Fatalf("FetchCatalog: %v", err)
	}
	s.ApplyCatalog(cat)
	return s
}

func lastMessage(s *Session) api.Message {
	tr := s.Transcript()
	return tr[len(tr)-1]
}

func TestNewSession_Greeting(t *testing.T) {
	s := NewSession()
	if s.State() != StateWelcome {
		t.Errorf("initial state = %v, want welcome", s.State())
	}
	want := []api.Message{
		{Role: api.RoleTutor, Content: "Welcome to Synthesis Tutor 2.0!"},
		{Role: api.RoleTutor, Content: "I'm your AI tutor. I can help you learn any subject through personalized, interactive sessions."},
		{Role: api.RoleTutor, Content: "What's your name?"},
	}
	if diff := cmp.Diff(want, s.Transcript()); diff != "" {
		t.Errorf("greeting mismatch (-want +got):\n%s", diff)
	}
	if s.ID() == "" {
		t.Error("session id should be set")
	}
}

func TestNewSession_IDs(t *testing.T) {
	if a, b := NewSession().ID(), NewSession().ID(); a == b {
		t.Errorf("generated ids collide: %q", a)
	}
	if got := NewSession(WithID("sess-7")).ID(); got != "sess-7" {
		t.Errorf("ID() = %q, want sess-7", got)
	}
}

func TestWelcomeScenario(t *testing.T) {
	s := NewSession()
	before := len(s.Transcript())

	step, err := s.Send("Ava")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	// The student message lands before any async work.
	if got := lastMessage(s); got != (api.Message{Role: api.RoleStudent, Content: "Ava"}) {
		t.Errorf("last message = %+v, want student Ava", got)
	}
	if !s.InFlight() {
		t.Error("expected in-flight while step is pending")
	}

	s.Resolve(step.Run(context.Background(), Services{}))

	tr := s.Transcript()
	if len(tr) != before+2 {
		t.Fatalf("transcript grew by %d, want 2", len(tr)-before)
	}
	want := api.Message{Role: api.RoleTutor, Content: "Ava, nice to meet you! Which grade are you in?"}
	if tr[len(tr)-1] != want {
		t.Errorf("reply = %+v, want %+v", tr[len(tr)-1], want)
	}
	if s.State() != StateGrade {
		t.Errorf("state = %v, want grade", s.State())
	}
	if s.InFlight() {
		t.Error("in-flight should clear after resolve")
	}
	if name, _ := s.Draft(); name != "Ava" {
		t.Errorf("draft name = %q", name)
	}
}

func TestGradeStep(t *testing.T) {
	s := NewSession()
	say(t, s, Services{}, "Ava")
	say(t, s, Services{}, "5th")

	if s.State() != StateInterests {
		t.Errorf("state = %v, want interests", s.State())
	}
	if _, grade := s.Draft(); grade != "5th" {
		t.Errorf("grade = %q, want 5th", grade)
	}
	want := "Great! What are you interested in learning? You can tell me a few topics (like math, space, animals, etc.)."
	if got := lastMessage(s).Content; got != want {
		t.Errorf("prompt = %q", got)
	}
}

func TestInterestsScenario(t *testing.T) {
	fb := &fakeBackend{}
	s := NewSession()
	svc := fb.services()
	say(t, s, svc, "Ava")
	say(t, s, svc, "5")

	step, err := s.Send("math, space.")
	if err != nil {
		t.Fatal(err)
	}
	if step.Kind != StepCreateStudent {
		t.Fatalf("step kind = %v, want create student", step.Kind)
	}
	if diff := cmp.Diff([]string{"math", "space"}, step.Interests()); diff != "" {
		t.Errorf("interests (-want +got):\n%s", diff)
	}
	s.Resolve(step.Run(context.Background(), svc))

	if s.State() != StateLearning {
		t.Errorf("state = %v, want learning", s.State())
	}
	st, ok := s.Student()
	if !ok || st.ID == "" {
		t.Fatalf("student not stored: %+v", st)
	}
	if diff := cmp.Diff(api.StudentCreate{Name: "Ava", Grade: "5", Interests: []string{"math", "space"}}, fb.created[0]); diff != "" {
		t.Errorf("create body (-want +got):\n%s", diff)
	}

	tr := s.Transcript()
	wantTail := []string{
		"Thanks for sharing! I'll customize your learning experience based on your interests in math, space.",
		"Let's get started! What would you like to learn today? You can choose from different modules or just chat with me about any topic.",
	}
	gotTail := []string{tr[len(tr)-2].Content, tr[len(tr)-1].Content}
	if diff := cmp.Diff(wantTail, gotTail); diff != "" {
		t.Errorf("tail (-want +got):\n%s", diff)
	}
}

func TestInterestsFailureStaysAndRetries(t *testing.T) {
	fb := &fakeBackend{createErr: errBackendDown}
	s := NewSession()
	svc := fb.services()
	say(t, s, svc, "Ava")
	say(t, s, svc, "5")
	out := say(t, s, svc, "animals")

	if !errors.Is(out.Err, errBackendDown) {
		t.Errorf("outcome err = %v", out.Err)
	}
	if s.State() != StateInterests {
		t.Errorf("state = %v, want interests", s.State())
	}
	if _, ok := s.Student(); ok {
		t.Error("student should not exist after failure")
	}
	if got := lastMessage(s).Content; got != "I'm having trouble saving your information. Please try again." {
		t.Errorf("error message = %q", got)
	}

	// Retrying means re-sending.
	fb.createErr = nil
	say(t, s, svc, "animals")
	if s.State() != StateLearning {
		t.Errorf("state after retry = %v, want learning", s.State())
	}
}

func TestChatForwardsFullTranscript(t *testing.T) {
	fb := &fakeBackend{chatReply: "Space is big!"}
	s := onboard(t, fb)
	prior := s.Transcript()

	say(t, s, fb.services(), "tell me about space")

	if len(fb.chats) != 1 {
		t.Fatalf("chat calls = %d, want 1", len(fb.chats))
	}
	req := fb.chats[0]
	want := append(prior, api.Message{Role: api.RoleStudent, Content: "tell me about space"})
	if diff := cmp.Diff(want, req.Context); diff != "" {
		t.Errorf("context (-want +got):\n%s", diff)
	}
	st, _ := s.Student()
	if req.StudentID != st.ID || req.Message != "tell me about space" {
		t.Errorf("request = %+v", req)
	}
	if got := lastMessage(s); got != (api.Message{Role: api.RoleTutor, Content: "Space is big!"}) {
		t.Errorf("reply = %+v", got)
	}
	if s.State() != StateLearning {
		t.Errorf("state = %v, want learning", s.State())
	}
}

func TestChatFailureAppendsApology(t *testing.T) {
	fb := &fakeBackend{}
	s := onboard(t, fb)
	fb.chatErr = errBackendDown

	say(t, s, fb.services(), "hello?")

	tr := s.Transcript()
	if tr[len(tr)-2] != (api.Message{Role: api.RoleStudent, Content: "hello?"}) {
		t.Errorf("student message missing: %+v", tr[len(tr)-2])
	}
	if tr[len(tr)-1].Content != "I'm having trouble processing your message. Please try again." {
		t.Errorf("apology = %q", tr[len(tr)-1].Content)
	}
	if s.State() != StateLearning || s.InFlight() {
		t.Errorf("state = %v inFlight = %v", s.State(), s.InFlight())
	}
}

func TestSendRejections(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s := NewSession()
		n := len(s.Transcript())
		if _, err := s.Send("   "); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("err = %v, want ErrEmptyInput", err)
		}
		if len(s.Transcript()) != n {
			t.Error("blank input should not touch the transcript")
		}
	})

	t.Run("busy", func(t *testing.T) {
		s := NewSession()
		if _, err := s.Send("Ava"); err != nil {
			t.Fatal(err)
		}
		n := len(s.Transcript())
		if _, err := s.Send("Bob"); !errors.Is(err, ErrBusy) {
			t.Errorf("err = %v, want ErrBusy", err)
		}
		if len(s.Transcript()) != n {
			t.Error("rejected input should not be appended")
		}
		if name, _ := s.Draft(); name != "Ava" {
			t.Errorf("name = %q, want Ava", name)
		}
	})

	t.Run("module", func(t *testing.T) {
		fb := &fakeBackend{modules: defaultRegistry()}
		s := onboard(t, fb)
		if err := s.SelectModule("m1"); err != nil {
			t.Fatal(err)
		}
		n := len(s.Transcript())
		if _, err := s.Send("hi"); !errors.Is(err, ErrInputSuppressed) {
			t.Errorf("err = %v, want ErrInputSuppressed", err)
		}
		if len(s.Transcript()) != n {
			t.Error("suppressed input should not be appended")
		}
	})
}

func TestChatReplyDoesNotOverrideModuleState(t *testing.T) {
	fb := &fakeBackend{modules: defaultRegistry(), chatReply: "ok"}
	s := onboard(t, fb)

	step, err := s.Send("question")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SelectModule("m2"); err != nil {
		t.Fatal(err)
	}
	s.Resolve(step.Run(context.Background(), fb.services()))

	if s.State() != StateModule {
		t.Errorf("state = %v, want module", s.State())
	}
	if lastMessage(s).Content != "ok" {
		t.Errorf("late reply not appended: %q", lastMessage(s).Content)
	}
}

func TestTranscriptAppendOnly(t *testing.T) {
	fb := &fakeBackend{modules: defaultRegistry(), chatReply: "sure"}
	s := NewSession()
	svc := fb.services()

	prev := s.Transcript()
	check := func(label string) {
		t.Helper()
		cur := s.Transcript()
		if len(cur) < len(prev) {
			t.Fatalf("%s: transcript shrank from %d to %d", label, len(prev), len(cur))
		}
		if diff := cmp.Diff(prev, cur[:len(prev)]); diff != "" {
			t.Fatalf("%s: earlier messages changed (-was +now):\n%s", label, diff)
		}
		prev = cur
	}

	say(t, s, svc, "Ava")
	check("name")
	s.Send("")
	check("empty")
	say(t, s, svc, "5")
	check("grade")
	say(t, s, svc, "math")
	check("interests")
	st, _ := s.Student()
	cat, _ := FetchCatalog(context.Background(), fb, fb, st.ID, nil)
	s.ApplyCatalog(cat)
	check("catalog")
	say(t, s, svc, "hi")
	check("chat")
	s.SelectModule("m4")
	check("locked select")
	s.SelectModule("m1")
	check("select")
	s.Send("ignored")
	check("suppressed")
	s.BackToModules()
	check("back")
}

func TestParseInterests(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"math, space.", []string{"math", "space"}},
		{"animals", []string{"animals"}},
		{"  art ,, music . dance  ", []string{"art", "music", "dance"}},
		{",.", []string{}},
		{"", []string{}},
		{"science fiction, U.S. history", []string{"science fiction", "U", "S", "history"}},
	}
	for _, tt := range tests {
		got := ParseInterests(tt.in)
		if got == nil {
			t.Errorf("ParseInterests(%q) returned nil", tt.in)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseInterests(%q) (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestOnboardingInterestsProperty(t *testing.T) {
	inputs := []string{"math, space.", "a.b,c", " dogs ", "x,,y..z", "."}
	for _, in := range inputs {
		fb := &fakeBackend{}
		s := NewSession()
		svc := fb.services()
		say(t, s, svc, "Name")
		say(t, s, svc, "3")
		say(t, s, svc, in)

		st, ok := s.Student()
		if !ok {
			t.Fatalf("%q: student not created", in)
		}
		if diff := cmp.Diff(ParseInterests(in), st.Interests); diff != "" {
			t.Errorf("%q: interests (-want +got):\n%s", in, diff)
		}
	}
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{80, "80"},
		{100, "100"},
		{200.0 / 3, "66.67"},
		{12.5, "12.5"},
	}
	for _, tt := range tests {
		if got := FormatScore(tt.in); got != tt.want {
			t.Errorf("FormatScore(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
