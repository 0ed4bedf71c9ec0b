package models

// Detector labels
const (
	LabelPerson    = "person"
	LabelDrill     = "drill"
	LabelBeam      = "beam"
	LabelCylinder  = "cylinder"
	LabelMachine   = "machine"
	LabelLHMachine = "lh_machine"
)

// BoundingBox is an axis-aligned box in pixel coordinates
type BoundingBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Center returns the box center
func (b BoundingBox) Center() (float64, float64) {
	return (b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2
}

// DetectedObject is one detector output within a frame
type DetectedObject struct {
	Label      string      `json:"label"`
	Box        BoundingBox `json:"box"`
	Confidence float64     `json:"confidence"`
}

// FrameDetections groups the detector output of one frame
type FrameDetections struct {
	FrameNumber int              `json:"frame_number"`
	Objects     []DetectedObject `json:"objects"`
}

// ByLabel groups the frame's objects by label. "rod" is folded into beam.
func (f FrameDetections) ByLabel() map[string][]DetectedObject {
	grouped := make(map[string][]DetectedObject)
	for _, obj := range f.Objects {
		label := normalizeLabel(obj.Label)
		grouped[label] = append(grouped[label], obj)
	}
	return grouped
}

func normalizeLabel(label string) string {
	switch label {
	case "rod", "beam/rod":
		return LabelBeam
	case "lh machine", "LH machine", "lh-machine":
		return LabelLHMachine
	}
	return label
}
