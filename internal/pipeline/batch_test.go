package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pagelens/internal/port"
	"pagelens/mocks"
)

func TestProcessBatch_FileIsolation(t *testing.T) {
	good := writeTempInput(t)
	missing := "/nope/gone.pdf"
	alsoGood := writeTempInput(t)

	expander := new(mocks.MockPageExpander)
	pre := new(mocks.MockPreprocessor)
	ext := new(mocks.MockExtractor)
	store := new(mocks.MockArtifactStore)

	for _, input := range []string{good, alsoGood} {
		expander.On("Expand", mock.Anything, input, mock.Anything).Return([]string{"p1.png"}, nil)
	}
	pre.On("Prepare", mock.Anything, "p1.png", mock.Anything).Return("p1.prep", nil)
	ext.On("Extract", mock.Anything, port.ExtractRequest{ImagePath: "p1.prep"}).
		Return(successExtraction("p1.prep"))
	store.On("SavePage", mock.Anything, mock.Anything, 1, mock.Anything).Return([]string{"a"}, nil)

	pages := NewPagePipeline(pre, ext, store)
	o := NewOrchestrator(expander, pages, store, nil, nil)
	b := NewBatch(o)

	result := b.ProcessBatch(context.Background(), []string{good, missing, alsoGood}, t.TempDir(),
		Options{Concurrency: 1})

	require.Len(t, result.Documents, 3)

	// Per-file results stay in input order; the middle failure does not stop
	// the batch.
	assert.Equal(t, good, result.Documents[0].InputFile)
	assert.True(t, result.Documents[0].Success)
	assert.Equal(t, missing, result.Documents[1].InputFile)
	assert.False(t, result.Documents[1].Success)
	assert.Equal(t, alsoGood, result.Documents[2].InputFile)
	assert.True(t, result.Documents[2].Success)

	assert.Equal(t, []string{missing}, result.FailedDocuments())
}
