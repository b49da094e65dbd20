package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c360/streamkit/diagnostics"
)

func TestSummarizeAggregatesAcrossSubpipelines(t *testing.T) {
	sub := &diagnostics.PipelineDiagnostics{
		ID: 2, Name: "sub",
		Elements: []*diagnostics.ElementDiagnostics{
			{ID: 20, Receivers: []*diagnostics.ReceiverDiagnostics{
				{ID: 200, ProcessedCount: 5, DroppedCount: 1, Throttled: true},
			}},
		},
	}
	root := &diagnostics.PipelineDiagnostics{
		ID: 1, Name: "root",
		Subpipelines: []*diagnostics.PipelineDiagnostics{sub},
		Elements: []*diagnostics.ElementDiagnostics{
			{ID: 10, Receivers: []*diagnostics.ReceiverDiagnostics{
				{ID: 100, ProcessedCount: 40, DroppedCount: 2},
				{ID: 101, ProcessedCount: 10},
			}},
			{ID: 11},
		},
	}
	sub.Parent = root

	sum := summarize(root)
	assert.Equal(t, 2, sum.pipelines)
	assert.Equal(t, 3, sum.elements)
	assert.Equal(t, int64(55), sum.processed)
	assert.Equal(t, int64(3), sum.dropped)
	assert.Equal(t, 1, sum.throttled)
}

func TestSummarizeTerminatesOnPipelineCycle(t *testing.T) {
	a := &diagnostics.PipelineDiagnostics{ID: 1, Name: "a"}
	b := &diagnostics.PipelineDiagnostics{ID: 2, Name: "b", Parent: a}
	a.Subpipelines = []*diagnostics.PipelineDiagnostics{b}
	b.Subpipelines = []*diagnostics.PipelineDiagnostics{a} // malformed loop

	sum := summarize(a)
	assert.Equal(t, 2, sum.pipelines)
}

func TestSummarizeNil(t *testing.T) {
	assert.Equal(t, summary{}, summarize(nil))
}
