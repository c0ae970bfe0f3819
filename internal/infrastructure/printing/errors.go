package printing

// ErrCodePdfGenerationFailed is the code of every render failure
const ErrCodePdfGenerationFailed = "PDF_GENERATION_FAILED"

// Render stages reported by RenderError
const (
	StageEngine   = "engine"
	StageTemplate = "template"
	StageTempFile = "temp_file"
	StageWrite    = "write"
	StageEmpty    = "empty_output"
	StageTimeout  = "timeout"
)

// RenderError is returned for any failure while producing a PDF
type RenderError struct {
	Code    string
	Stage   string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// NewRenderError creates a RenderError with the PDF_GENERATION_FAILED code
func NewRenderError(stage, message string, cause error) *RenderError {
	return &RenderError{
		Code:    ErrCodePdfGenerationFailed,
		Stage:   stage,
		Message: message,
		Cause:   cause,
	}
}

// RenderStage reports where the render failed
func (e *RenderError) RenderStage() string {
	return e.Stage
}
