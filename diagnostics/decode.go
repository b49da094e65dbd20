package diagnostics

import (
	"fmt"

	"github.com/c360/streamkit/errors"
	"github.com/c360/streamkit/wire"
)

// decoder carries one identity→instance table per node type, local to a
// single Decode call. A mapped identity may still be in progress (link
// fields unassigned); returning it anyway is what resolves cycles, since
// the caller is storing a reference, not reading fields.
type decoder struct {
	r     *wire.Reader
	depth int

	pipelines map[int32]*PipelineDiagnostics
	elements  map[int32]*ElementDiagnostics
	emitters  map[int32]*EmitterDiagnostics
	receivers map[int32]*ReceiverDiagnostics

	// pending counts identities inserted but not yet completed. A clean
	// decode always drains it to zero; a nonzero value after an
	// error-free pass means the stream left a node dangling.
	pending int
}

// Decode reads a graph encoded by Encode, reconstructing identity and
// sharing: every reference to the same identity resolves to the same
// instance, including across cycles.
func Decode(r *wire.Reader) (*PipelineDiagnostics, error) {
	d := &decoder{
		r:         r,
		pipelines: make(map[int32]*PipelineDiagnostics),
		elements:  make(map[int32]*ElementDiagnostics),
		emitters:  make(map[int32]*EmitterDiagnostics),
		receivers: make(map[int32]*ReceiverDiagnostics),
	}

	version := r.Uint8()
	if r.Err() == nil && version != FormatVersion {
		r.SetError(errors.WrapInvalid(
			fmt.Errorf("%w: got %d, want %d", errors.ErrBadVersion, version, FormatVersion),
			"diagnostics", "Decode", "version check"))
	}

	root := d.pipelineRef()
	if err := r.Err(); err != nil {
		return nil, err
	}
	if d.pending != 0 {
		return nil, errors.WrapInvalid(errors.ErrDanglingReference,
			"diagnostics", "Decode", "completeness check")
	}
	return root, nil
}

// Unmarshal decodes a graph from a byte buffer.
func Unmarshal(data []byte) (*PipelineDiagnostics, error) {
	return Decode(wire.NewReader(data))
}

func (d *decoder) enter() bool {
	d.depth++
	if d.depth > maxDepth {
		d.r.SetError(errors.WrapInvalid(errors.ErrDepthExceeded, "diagnostics", "Decode", "recursion guard"))
		return false
	}
	return true
}

// complete marks one body fully decoded. Skipped when the stream errored
// mid-body, leaving the node visibly in progress.
func (d *decoder) complete() {
	d.depth--
	if d.r.Err() == nil {
		d.pending--
	}
}

func (d *decoder) pipelineRef() *PipelineDiagnostics {
	if !d.r.Flag() || d.r.Err() != nil {
		return nil
	}
	id := d.r.Int32()
	if d.r.Err() != nil {
		return nil
	}
	if p, seen := d.pipelines[id]; seen {
		return p
	}

	p := &PipelineDiagnostics{ID: id}
	// Insert before recursing: a cycle back to this identity must find
	// the in-progress instance instead of re-entering the body.
	d.pipelines[id] = p
	d.pending++
	if !d.enter() {
		return p
	}

	p.Name = d.r.String()
	p.IsRunning = d.r.Bool()

	p.Parent = d.pipelineRef()
	p.Subpipelines = d.pipelineSeq()
	p.Elements = d.elementSeq()

	d.complete()
	return p
}

func (d *decoder) elementRef() *ElementDiagnostics {
	if !d.r.Flag() || d.r.Err() != nil {
		return nil
	}
	id := d.r.Int32()
	if d.r.Err() != nil {
		return nil
	}
	if el, seen := d.elements[id]; seen {
		return el
	}

	el := &ElementDiagnostics{ID: id}
	d.elements[id] = el
	d.pending++
	if !d.enter() {
		return el
	}

	el.Name = d.r.String()
	el.TypeName = d.r.String()
	el.Kind = ElementKind(d.r.Int32())
	el.IsRunning = d.r.Bool()
	el.Finalized = d.r.Bool()
	el.DiagnosticState = d.r.String()
	el.PipelineID = d.r.Int32()

	el.Pipeline = d.pipelineRef()
	el.Emitters = d.emitterSeq()
	el.Receivers = d.receiverSeq()
	el.RepresentsSubpipeline = d.pipelineRef()
	el.ConnectorBridge = d.elementRef()

	d.complete()
	return el
}

func (d *decoder) emitterRef() *EmitterDiagnostics {
	if !d.r.Flag() || d.r.Err() != nil {
		return nil
	}
	id := d.r.Int32()
	if d.r.Err() != nil {
		return nil
	}
	if em, seen := d.emitters[id]; seen {
		return em
	}

	em := &EmitterDiagnostics{ID: id}
	d.emitters[id] = em
	d.pending++
	if !d.enter() {
		return em
	}

	em.Name = d.r.String()
	em.TypeName = d.r.String()

	em.Element = d.elementRef()
	em.Targets = d.receiverSeq()

	d.complete()
	return em
}

func (d *decoder) receiverRef() *ReceiverDiagnostics {
	if !d.r.Flag() || d.r.Err() != nil {
		return nil
	}
	id := d.r.Int32()
	if d.r.Err() != nil {
		return nil
	}
	if rc, seen := d.receivers[id]; seen {
		return rc
	}

	rc := &ReceiverDiagnostics{ID: id}
	d.receivers[id] = rc
	d.pending++
	if !d.enter() {
		return rc
	}

	rc.Name = d.r.String()
	rc.TypeName = d.r.String()
	rc.DeliveryPolicyName = d.r.String()
	rc.Throttled = d.r.Bool()
	rc.ProcessedCount = d.r.Int32()
	rc.DroppedCount = d.r.Int32()
	rc.AvgDeliveryQueueSize = d.r.Float64()
	rc.AvgCreatedLatencyMs = d.r.Float64()
	rc.AvgEmittedLatencyMs = d.r.Float64()
	rc.AvgReceivedLatencyMs = d.r.Float64()
	rc.AvgProcessTimeMs = d.r.Float64()
	rc.AvgMessageSize = d.r.Float64()

	rc.Element = d.elementRef()
	rc.Source = d.emitterRef()

	d.complete()
	return rc
}

func (d *decoder) pipelineSeq() []*PipelineDiagnostics {
	if !d.r.Flag() || d.r.Err() != nil {
		return nil
	}
	n := d.r.Count()
	out := make([]*PipelineDiagnostics, 0, n)
	for i := 0; i < n && d.r.Err() == nil; i++ {
		out = append(out, d.pipelineRef())
	}
	return out
}

func (d *decoder) elementSeq() []*ElementDiagnostics {
	if !d.r.Flag() || d.r.Err() != nil {
		return nil
	}
	n := d.r.Count()
	out := make([]*ElementDiagnostics, 0, n)
	for i := 0; i < n && d.r.Err() == nil; i++ {
		out = append(out, d.elementRef())
	}
	return out
}

func (d *decoder) emitterSeq() []*EmitterDiagnostics {
	if !d.r.Flag() || d.r.Err() != nil {
		return nil
	}
	n := d.r.Count()
	out := make([]*EmitterDiagnostics, 0, n)
	for i := 0; i < n && d.r.Err() == nil; i++ {
		out = append(out, d.emitterRef())
	}
	return out
}

func (d *decoder) receiverSeq() []*ReceiverDiagnostics {
	if !d.r.Flag() || d.r.Err() != nil {
		return nil
	}
	n := d.r.Count()
	out := make([]*ReceiverDiagnostics, 0, n)
	for i := 0; i < n && d.r.Err() == nil; i++ {
		out = append(out, d.receiverRef())
	}
	return out
}
