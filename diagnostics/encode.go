package diagnostics

import (
	"fmt"

	"github.com/c360/streamkit/errors"
	"github.com/c360/streamkit/wire"
)

// FormatVersion is written ahead of every encoded graph. Decode rejects
// any other version instead of misreading the stream.
const FormatVersion uint8 = 1

// maxDepth bounds the depth-first recursion on both encode and decode.
// Cycle-breaking keeps real graphs shallow (nesting times port fan-out);
// only adversarial input can approach this, and it gets a framing error
// instead of stack exhaustion.
const maxDepth = 4096

// encoder carries one identity table per node type, local to a single
// Encode call. Membership in a table means the node's body is already in
// the stream; the tables map to the instance so an identity claimed by two
// distinct instances is caught instead of silently aliased.
type encoder struct {
	w     *wire.Writer
	depth int

	pipelines map[int32]*PipelineDiagnostics
	elements  map[int32]*ElementDiagnostics
	emitters  map[int32]*EmitterDiagnostics
	receivers map[int32]*ReceiverDiagnostics
}

// Encode writes the graph reachable from root to w. Each distinct identity
// gets its full body exactly once; all later references carry only the
// identity, which both breaks cycles and keeps shared nodes shared.
func Encode(w *wire.Writer, root *PipelineDiagnostics) error {
	e := &encoder{
		w:         w,
		pipelines: make(map[int32]*PipelineDiagnostics),
		elements:  make(map[int32]*ElementDiagnostics),
		emitters:  make(map[int32]*EmitterDiagnostics),
		receivers: make(map[int32]*ReceiverDiagnostics),
	}
	w.Uint8(FormatVersion)
	e.pipelineRef(root)
	return w.Err()
}

// Marshal encodes the graph into a fresh byte buffer.
func Marshal(root *PipelineDiagnostics) ([]byte, error) {
	w := wire.NewWriter()
	if err := Encode(w, root); err != nil {
		return nil, err
	}
	return w.Bytes()
}

func (e *encoder) enter() bool {
	e.depth++
	if e.depth > maxDepth {
		e.w.SetError(errors.WrapInvalid(errors.ErrDepthExceeded, "diagnostics", "Encode", "recursion guard"))
		return false
	}
	return true
}

func (e *encoder) leave() {
	e.depth--
}

// collision latches an identity-collision error: one identity claimed by
// two distinct instances cannot round-trip, so it is refused at encode
// time rather than decoded into an aliased graph.
func (e *encoder) collision(kind string, id int32) {
	e.w.SetError(errors.WrapInvalid(
		fmt.Errorf("%w: %s identity %d", errors.ErrDuplicateBody, kind, id),
		"diagnostics", "Encode", "identity collision check"))
}

func (e *encoder) pipelineRef(p *PipelineDiagnostics) {
	e.w.Flag(p != nil)
	if p == nil || e.w.Err() != nil {
		return
	}
	e.w.Int32(p.ID)
	if prev, seen := e.pipelines[p.ID]; seen {
		if prev != p {
			e.collision("pipeline", p.ID)
		}
		return
	}
	e.pipelines[p.ID] = p
	if !e.enter() {
		return
	}
	defer e.leave()

	e.w.String(p.Name)
	e.w.Bool(p.IsRunning)

	e.pipelineRef(p.Parent)
	e.pipelineSeq(p.Subpipelines)
	e.elementSeq(p.Elements)
}

func (e *encoder) elementRef(el *ElementDiagnostics) {
	e.w.Flag(el != nil)
	if el == nil || e.w.Err() != nil {
		return
	}
	e.w.Int32(el.ID)
	if prev, seen := e.elements[el.ID]; seen {
		if prev != el {
			e.collision("element", el.ID)
		}
		return
	}
	e.elements[el.ID] = el
	if !e.enter() {
		return
	}
	defer e.leave()

	e.w.String(el.Name)
	e.w.String(el.TypeName)
	e.w.Int32(int32(el.Kind))
	e.w.Bool(el.IsRunning)
	e.w.Bool(el.Finalized)
	e.w.String(el.DiagnosticState)
	e.w.Int32(el.PipelineID)

	e.pipelineRef(el.Pipeline)
	e.emitterSeq(el.Emitters)
	e.receiverSeq(el.Receivers)
	e.pipelineRef(el.RepresentsSubpipeline)
	e.elementRef(el.ConnectorBridge)
}

func (e *encoder) emitterRef(em *EmitterDiagnostics) {
	e.w.Flag(em != nil)
	if em == nil || e.w.Err() != nil {
		return
	}
	e.w.Int32(em.ID)
	if prev, seen := e.emitters[em.ID]; seen {
		if prev != em {
			e.collision("emitter", em.ID)
		}
		return
	}
	e.emitters[em.ID] = em
	if !e.enter() {
		return
	}
	defer e.leave()

	e.w.String(em.Name)
	e.w.String(em.TypeName)

	e.elementRef(em.Element)
	e.receiverSeq(em.Targets)
}

func (e *encoder) receiverRef(rc *ReceiverDiagnostics) {
	e.w.Flag(rc != nil)
	if rc == nil || e.w.Err() != nil {
		return
	}
	e.w.Int32(rc.ID)
	if prev, seen := e.receivers[rc.ID]; seen {
		if prev != rc {
			e.collision("receiver", rc.ID)
		}
		return
	}
	e.receivers[rc.ID] = rc
	if !e.enter() {
		return
	}
	defer e.leave()

	e.w.String(rc.Name)
	e.w.String(rc.TypeName)
	e.w.String(rc.DeliveryPolicyName)
	e.w.Bool(rc.Throttled)
	e.w.Int32(rc.ProcessedCount)
	e.w.Int32(rc.DroppedCount)
	e.w.Float64(rc.AvgDeliveryQueueSize)
	e.w.Float64(rc.AvgCreatedLatencyMs)
	e.w.Float64(rc.AvgEmittedLatencyMs)
	e.w.Float64(rc.AvgReceivedLatencyMs)
	e.w.Float64(rc.AvgProcessTimeMs)
	e.w.Float64(rc.AvgMessageSize)

	e.elementRef(rc.Element)
	e.emitterRef(rc.Source)
}

func (e *encoder) pipelineSeq(ps []*PipelineDiagnostics) {
	e.w.Flag(ps != nil)
	if ps == nil {
		return
	}
	e.w.Count(len(ps))
	for _, p := range ps {
		e.pipelineRef(p)
	}
}

func (e *encoder) elementSeq(els []*ElementDiagnostics) {
	e.w.Flag(els != nil)
	if els == nil {
		return
	}
	e.w.Count(len(els))
	for _, el := range els {
		e.elementRef(el)
	}
}

func (e *encoder) emitterSeq(ems []*EmitterDiagnostics) {
	e.w.Flag(ems != nil)
	if ems == nil {
		return
	}
	e.w.Count(len(ems))
	for _, em := range ems {
		e.emitterRef(em)
	}
}

func (e *encoder) receiverSeq(rcs []*ReceiverDiagnostics) {
	e.w.Flag(rcs != nil)
	if rcs == nil {
		return
	}
	e.w.Count(len(rcs))
	for _, rc := range rcs {
		e.receiverRef(rc)
	}
}
