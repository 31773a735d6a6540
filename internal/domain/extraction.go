package domain

import "time"

// ExtractionResult is the outcome of one model extraction attempt on a
// single canonical image. The ParseResult is always non-nil: a failed
// attempt carries an empty, unsuccessful one.
type ExtractionResult struct {
	RawOutput      string        `json:"raw_output"`
	ParseResult    *ParseResult  `json:"parse_result"`
	ModelName      string        `json:"model_name"`
	PromptUsed     string        `json:"prompt_used"`
	ImagePath      string        `json:"image_path"`
	ProcessingTime time.Duration `json:"processing_time"`
	Success        bool          `json:"success"`
	ErrorMessage   string        `json:"error_message,omitempty"`
}

// Elements returns the parsed elements, or nil for a failed extraction.
func (r *ExtractionResult) Elements() []Element {
	if r.ParseResult == nil {
		return nil
	}
	return r.ParseResult.Elements
}

// ElementCount returns the number of parsed elements.
func (r *ExtractionResult) ElementCount() int {
	if r.ParseResult == nil {
		return 0
	}
	return r.ParseResult.ElementCount()
}

// FailedExtraction builds the well-formed failure value the extraction
// boundary hands back instead of raising: empty output, an unsuccessful
// embedded ParseResult, and the captured error message.
func FailedExtraction(imagePath, modelName, errMsg string) *ExtractionResult {
	return &ExtractionResult{
		ParseResult: &ParseResult{
			Format:       "none",
			Success:      false,
			ErrorMessage: errMsg,
		},
		ModelName:    modelName,
		ImagePath:    imagePath,
		Success:      false,
		ErrorMessage: errMsg,
	}
}
