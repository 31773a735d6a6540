package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownParser_Detect(t *testing.T) {
	p := NewMarkdownParser()

	assert.True(t, p.Detect("# Heading"))
	assert.True(t, p.Detect("| a | b |\n| 1 | 2 |"))
	assert.True(t, p.Detect("- item one\n- item two"))
	assert.True(t, p.Detect("```\ncode\n```"))
	assert.True(t, p.Detect("<table><tr><td>x</td></tr></table>"))
	assert.False(t, p.Detect("just a plain paragraph"))
	assert.False(t, p.Detect(""))

	// Grounding tags take priority; markdown must not shadow them.
	assert.False(t, p.Detect("# h\n<|ref|>text<|/ref|><|det|>[[1,2,3,4]]<|/det|>x"))
}

func TestMarkdownParser_Parse_MixedDocument(t *testing.T) {
	raw := "# Annual Report\n" +
		"\n" +
		"Revenue grew this year.\n" +
		"Margins held steady.\n" +
		"\n" +
		"| Quarter | Revenue |\n" +
		"| Q1 | 100 |\n" +
		"| Q2 | 120 |\n" +
		"\n" +
		"- strong cash position\n" +
		"- low churn\n"

	result := NewMarkdownParser().Parse(raw)

	require.True(t, result.Success)
	assert.Equal(t, "markdown", result.Format)
	require.Len(t, result.Elements, 4)

	assert.Equal(t, "heading_1", result.Elements[0].Type)
	assert.Equal(t, "Annual Report", result.Elements[0].Content)
	assert.Nil(t, result.Elements[0].BBox)

	assert.Equal(t, "text", result.Elements[1].Type)
	assert.Equal(t, "Revenue grew this year.\nMargins held steady.", result.Elements[1].Content)

	assert.Equal(t, "table", result.Elements[2].Type)
	assert.Contains(t, result.Elements[2].Content, "| Q2 | 120 |")

	assert.Equal(t, "list", result.Elements[3].Type)
	assert.Equal(t, "- strong cash position\n- low churn", result.Elements[3].Content)

	// IDs follow appearance order starting at 1.
	for i, el := range result.Elements {
		assert.Equal(t, i+1, el.ID)
	}
}

func TestMarkdownParser_Parse_HeadingLevels(t *testing.T) {
	result := NewMarkdownParser().Parse("## Section\n### Subsection")

	require.Len(t, result.Elements, 2)
	assert.Equal(t, "heading_2", result.Elements[0].Type)
	assert.Equal(t, "heading_3", result.Elements[1].Type)
}

func TestMarkdownParser_Parse_CodeFence(t *testing.T) {
	result := NewMarkdownParser().Parse("```\nline one\nline two\n```")

	require.Len(t, result.Elements, 1)
	assert.Equal(t, "code", result.Elements[0].Type)
	assert.Equal(t, "line one\nline two", result.Elements[0].Content)
}

func TestMarkdownParser_Parse_HTMLTable(t *testing.T) {
	result := NewMarkdownParser().Parse("<table>\n<tr><td>a</td></tr>\n</table>")

	require.Len(t, result.Elements, 1)
	assert.Equal(t, "table", result.Elements[0].Type)
	assert.Contains(t, result.Elements[0].Content, "</table>")
}
