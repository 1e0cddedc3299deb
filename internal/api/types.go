package api

// Role identifies who authored a transcript message.
type Role string

const (
	RoleTutor   Role = "tutor"
	RoleStudent Role = "student"
)

// Message is one entry in the tutoring transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// StudentCreate is the body of POST /students.
type StudentCreate struct {
	Name      string   `json:"name"`
	Grade     string   `json:"grade"`
	Interests []string `json:"interests"`
}

// Student is a learner record as stored by the backend.
type Student struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Grade     string   `json:"grade"`
	Interests []string `json:"interests"`
}

// Module is one entry of the module registry.
type Module struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Subject      string   `json:"subject"`
	Difficulty   int      `json:"difficulty"`
	Locked       bool     `json:"locked"`
	Requirements []string `json:"requirements"`
}

// ProgressRecord is the stored outcome of one student's attempts at one module.
type ProgressRecord struct {
	ID         string  `json:"id,omitempty"`
	StudentID  string  `json:"student_id"`
	ModuleID   string  `json:"module_id"`
	ModuleName string  `json:"module_name"`
	Completed  bool    `json:"completed"`
	Score      float64 `json:"score"`
}

// ProgressUpdate is the body of POST /progress. The backend upserts by
// (student_id, module_id).
type ProgressUpdate struct {
	StudentID  string  `json:"student_id"`
	ModuleID   string  `json:"module_id"`
	ModuleName string  `json:"module_name"`
	Completed  bool    `json:"completed"`
	Score      float64 `json:"score"`
}

// ChatRequest is the body of POST /chat. Context carries the full transcript
// up to and including the message being sent.
type ChatRequest struct {
	StudentID string    `json:"student_id"`
	Message   string    `json:"message"`
	Context   []Message `json:"context"`
}

// ChatResponse is the reply to POST /chat.
type ChatResponse struct {
	Response  string `json:"response"`
	StudentID string `json:"student_id,omitempty"`
}

// VideoFrame is the body of POST /process-video-frame. FrameData is a
// base64 data URL.
type VideoFrame struct {
	StudentID string `json:"student_id"`
	FrameData string `json:"frame_data"`
	MimeType  string `json:"mime_type"`
}

// FrameAck is the reply to POST /process-video-frame.
type FrameAck struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	FrameID string `json:"frame_id"`
}

// Health is the reply to GET /api/.
type Health struct {
	Message string `json:"message"`
}
