package diagnostics

// ElementKind classifies a pipeline element. The numeric values are part of
// the wire format and must not be reordered.
type ElementKind int32

// ElementKind constants
const (
	// KindSource is an element that produces messages from outside the pipeline
	KindSource ElementKind = iota
	// KindReactive is an element that transforms incoming messages
	KindReactive
	// KindConnector bridges streams across pipeline boundaries
	KindConnector
	// KindSubpipeline is an element that represents a nested pipeline
	KindSubpipeline
)

// String returns a human-readable representation of the element kind.
func (k ElementKind) String() string {
	switch k {
	case KindSource:
		return "Source"
	case KindReactive:
		return "Reactive"
	case KindConnector:
		return "Connector"
	case KindSubpipeline:
		return "Subpipeline"
	default:
		return "Unknown"
	}
}

// PipelineDiagnostics is the snapshot of one pipeline. ID, Name, and
// IsRunning are core fields fixed at capture; Parent, Subpipelines, and
// Elements are link fields assigned while the snapshot graph is wired up.
type PipelineDiagnostics struct {
	ID        int32
	Name      string
	IsRunning bool

	Parent       *PipelineDiagnostics
	Subpipelines []*PipelineDiagnostics
	Elements     []*ElementDiagnostics
}

// ElementDiagnostics is the snapshot of one pipeline element. PipelineID
// duplicates Pipeline.ID as a plain scalar so consumers can correlate
// elements without chasing the back-reference.
type ElementDiagnostics struct {
	ID              int32
	Name            string
	TypeName        string
	Kind            ElementKind
	IsRunning       bool
	Finalized       bool
	DiagnosticState string
	PipelineID      int32

	Pipeline              *PipelineDiagnostics
	Emitters              []*EmitterDiagnostics
	Receivers             []*ReceiverDiagnostics
	RepresentsSubpipeline *PipelineDiagnostics
	ConnectorBridge       *ElementDiagnostics
}

// EmitterDiagnostics is the snapshot of one output port.
type EmitterDiagnostics struct {
	ID       int32
	Name     string
	TypeName string

	Element *ElementDiagnostics
	Targets []*ReceiverDiagnostics
}

// ReceiverDiagnostics is the snapshot of one input port, including the
// windowed statistics the runtime maintains per receiver.
type ReceiverDiagnostics struct {
	ID                 int32
	Name               string
	TypeName           string
	DeliveryPolicyName string
	Throttled          bool

	ProcessedCount       int32
	DroppedCount         int32
	AvgDeliveryQueueSize float64
	AvgCreatedLatencyMs  float64
	AvgEmittedLatencyMs  float64
	AvgReceivedLatencyMs float64
	AvgProcessTimeMs     float64
	AvgMessageSize       float64

	Element *ElementDiagnostics
	Source  *EmitterDiagnostics
}
