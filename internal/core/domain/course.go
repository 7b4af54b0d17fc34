package domain

import "time"

type SyllabusStatus string

const (
	StatusUploaded    SyllabusStatus = "uploaded"
	StatusReady       SyllabusStatus = "ready"
	StatusNeedsReview SyllabusStatus = "needs_review"
	StatusFailed      SyllabusStatus = "failed"
)

// MinExtractedTextChars is the minimum trimmed length below which a PDF's
// text layer is considered insufficient and OCR escalation kicks in.
const MinExtractedTextChars = 50

type Professor struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	OfficeHours string `json:"office_hours"`
}

type Chapter struct {
	Name        string `json:"name"`
	Order       int    `json:"suggested_order"`
	WeeklyHours int    `json:"weekly_hours"`
}

type Homework struct {
	Title       string `json:"title"`
	DueDate     string `json:"due_date"`
	Description string `json:"description,omitempty"`
}

type Exam struct {
	Type        string `json:"type"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
}

type Project struct {
	Title       string `json:"title"`
	DueDate     string `json:"due_date"`
	Description string `json:"description,omitempty"`
}

// AcademicDate is a calendar event outside the deadline families, such as
// a break, a drop date, or a finals week.
type AcademicDate struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// CourseRecord is the canonical structured representation of one syllabus.
// All date fields are ISO 8601 calendar dates (YYYY-MM-DD) when present and
// empty strings when absent.
type CourseRecord struct {
	CourseName    string         `json:"course_name"`
	CourseCode    string         `json:"course_code,omitempty"`
	Professor     Professor      `json:"professor"`
	ClassSchedule string         `json:"class_schedule,omitempty"`
	Chapters      []Chapter      `json:"chapters"`
	Homework      []Homework     `json:"homework"`
	Exams         []Exam         `json:"exams"`
	Projects      []Project      `json:"projects"`
	AcademicDates []AcademicDate `json:"academic_dates"`
}

// EnsureSlices replaces nil sequences with empty ones so JSON encodings and
// downstream aggregation never have to branch on nil.
func (c *CourseRecord) EnsureSlices() {
	if c.Chapters == nil {
		c.Chapters = []Chapter{}
	}
	if c.Homework == nil {
		c.Homework = []Homework{}
	}
	if c.Exams == nil {
		c.Exams = []Exam{}
	}
	if c.Projects == nil {
		c.Projects = []Project{}
	}
	if c.AcademicDates == nil {
		c.AcademicDates = []AcademicDate{}
	}
}

// Identifier returns the course name or, when absent, the course code.
func (c *CourseRecord) Identifier() string {
	if c.CourseName != "" {
		return c.CourseName
	}
	return c.CourseCode
}

// SyllabusRecord wraps a CourseRecord with ownership and lifecycle state for
// persistence.
type SyllabusRecord struct {
	ID             string         `json:"id"`
	OwnerID        string         `json:"owner_id"`
	Filename       string         `json:"filename"`
	Course         CourseRecord   `json:"course"`
	Status         SyllabusStatus `json:"status"`
	Error          string         `json:"error,omitempty"`
	AudioPath      string         `json:"audio_path,omitempty"`
	CalendarSynced bool           `json:"calendar_synced"`
	UploadedAt     time.Time      `json:"uploaded_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Extraction is the outcome of one PDF text extraction.
type Extraction struct {
	Text   string
	Method ExtractionMethod
	Pages  int
}

type ExtractionMethod string

const (
	MethodTextLayer ExtractionMethod = "text_layer"
	MethodOCR       ExtractionMethod = "ocr"
	MethodNone      ExtractionMethod = "none"
)

// ExtractionStats summarizes a multi-file parse request.
type ExtractionStats struct {
	TotalFiles            int `json:"total_files"`
	SuccessfulExtractions int `json:"successful_extractions"`
	TotalCharacters       int `json:"total_characters"`
	TotalWords            int `json:"total_words"`
	OCRFallbacks          int `json:"ocr_fallbacks"`
}

// UserClaims is the identity attached to a verified bearer token.
type UserClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}
