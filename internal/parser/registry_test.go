package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagelens/internal/domain"
)

func TestRegistry_PriorityOrder(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"grounding", "markdown", "plaintext"}, r.Names())
}

func TestRegistry_ParserFor(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, "grounding", r.ParserFor("<|ref|>t<|/ref|><|det|>[[1,2,3,4]]<|/det|>x").Name())
	assert.Equal(t, "markdown", r.ParserFor("# heading").Name())
	assert.Equal(t, "plaintext", r.ParserFor("plain prose").Name())
}

func TestRegistry_Parse_EmptyInputFails(t *testing.T) {
	result := NewRegistry().Parse("   \n  ")

	assert.False(t, result.Success)
	assert.Equal(t, "none", result.Format)
	assert.Empty(t, result.Elements)
	assert.Equal(t, domain.ErrEmptyOutput.Error(), result.ErrorMessage)
}

// Any non-empty response yields at least one element with Success=true,
// whatever shape the model produced.
func TestRegistry_Parse_NonEmptyAlwaysSucceeds(t *testing.T) {
	inputs := []string{
		"plain prose only",
		"# markdown heading",
		"<|ref|>text<|/ref|><|det|>[[1,2,3,4]]<|/det|>grounded",
		"<|ref|>text<|/ref|><|det|>garbage<|/det|>degraded",
		"random <|ref|> partial markers",
	}
	r := NewRegistry()
	for _, raw := range inputs {
		result := r.Parse(raw)
		assert.True(t, result.Success, "input %q", raw)
		assert.NotEmpty(t, result.Elements, "input %q", raw)
	}
}

func TestRegistry_Parse_GroundingBeatsMarkdown(t *testing.T) {
	raw := "# looks like markdown\n<|ref|>text<|/ref|><|det|>[[1,2,3,4]]<|/det|>grounded"

	result := NewRegistry().Parse(raw)

	require.True(t, result.Success)
	assert.Equal(t, "grounding", result.Format)
	require.Len(t, result.Elements, 1)
	assert.Equal(t, "grounded", result.Elements[0].Content)
}
