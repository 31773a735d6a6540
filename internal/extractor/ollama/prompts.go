package ollama

// Prompt variants sent to the vision model. The grounding variants ask the
// model to emit located elements; the markdown and plain variants trade
// location for cleaner text.
var prompts = map[string]string{
	"grounding_v1": "<|grounding|>Extract all text, tables, and structural elements from this document.",
	"grounding_v2": "<|grounding|>OCR this document. Emit every text region, table, figure caption, and heading with its bounding box.",
	"markdown_v1":  "Convert this document page to clean markdown. Preserve headings, tables, and lists.",
	"plain_v1":     "Transcribe all text visible in this image.",
}

// DefaultPromptKey is used when no prompt key is configured.
const DefaultPromptKey = "grounding_v1"

// PromptFor returns the prompt text for the given key, falling back to the
// default variant for unknown keys.
func PromptFor(key string) string {
	if p, ok := prompts[key]; ok {
		return p
	}
	return prompts[DefaultPromptKey]
}

// PromptKeys returns the known prompt variant keys.
func PromptKeys() []string {
	keys := make([]string, 0, len(prompts))
	for k := range prompts {
		keys = append(keys, k)
	}
	return keys
}
