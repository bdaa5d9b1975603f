package bandpal

// Stage identifies a step of the conversion pipeline.
type Stage int

const (
	StageLab Stage = iota
	StageHistograms
	StageDistances
	StageBands
	StagePalette
	StageUnify
	StageIndex
)

func (s Stage) String() string {
	switch s {
	case StageLab:
		return "lab"
	case StageHistograms:
		return "histograms"
	case StageDistances:
		return "distances"
	case StageBands:
		return "bands"
	case StagePalette:
		return "palette"
	case StageUnify:
		return "unify"
	case StageIndex:
		return "index"
	default:
		return "unknown"
	}
}

// Event is reported once per finished stage, and once per band for
// StagePalette. Band is -1 for stages that are not per band.
type Event struct {
	Stage      Stage
	Band       int
	Rows       int
	Colors     int
	Iterations int
	Converged  bool
}

// ProgressFunc receives pipeline events. It is called synchronously from
// the converting goroutine.
type ProgressFunc func(Event)

func (o Options) report(e Event) {
	if o.Progress != nil {
		o.Progress(e)
	}
}
