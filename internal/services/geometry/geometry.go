// Package geometry evaluates hazardous spatial relations between detected objects.
package geometry

import (
	"math"

	"github.com/killallgit/minewatch-api/internal/models"
)

// Violation labels produced by the rule set
const (
	LabelHandlingDrill  = "Human handling a drill"
	LabelBrokenCylinder = "Broken cylinder"
	LabelRodAssisted    = "Human using beam/rod on drill"
	LabelLHCollision    = "LH machines collision risk"
)

// Threshold is a pair of maximum center distances in pixels
type Threshold struct {
	Horizontal float64
	Vertical   float64
}

// Rules holds the tunable thresholds of every rule
type Rules struct {
	Handling         Threshold
	HandlingMinConf  float64
	CylinderMinConf  float64
	RodAssisted      Threshold
	RodMinConf       float64
	Collision        Threshold
	CollisionMinConf float64
}

// DefaultRules returns the production thresholds
func DefaultRules() Rules {
	return Rules{
		Handling:         Threshold{Horizontal: 120, Vertical: 100},
		HandlingMinConf:  0.70,
		CylinderMinConf:  0.76,
		RodAssisted:      Threshold{Horizontal: 220, Vertical: 180},
		RodMinConf:       0.70,
		Collision:        Threshold{Horizontal: 350, Vertical: 250},
		CollisionMinConf: 0.70,
	}
}

// Candidate is a rule firing within one frame
type Candidate struct {
	FrameNumber int
	Label       string
	Confidence  float64
	Severity    models.Severity
}

// CloseAndAligned reports whether the box centers are strictly closer than
// both thresholds. It is symmetric in a and b.
func CloseAndAligned(a, b models.BoundingBox, horiz, vert float64) bool {
	ax, ay := a.Center()
	bx, by := b.Center()
	return math.Abs(ax-bx) < horiz && math.Abs(ay-by) < vert
}

func mean(values ...float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Evaluator applies Rules to per-frame detections
type Evaluator struct {
	rules Rules
}

// NewEvaluator creates an evaluator with the given rules
func NewEvaluator(rules Rules) *Evaluator {
	return &Evaluator{rules: rules}
}

// Evaluate runs every rule against one frame. Each rule fires at most once per
// frame with its best-scoring configuration; different rules may fire together.
func (e *Evaluator) Evaluate(frame models.FrameDetections) []Candidate {
	objects := frame.ByLabel()
	var out []Candidate

	emit := func(label string, conf float64, sev models.Severity) {
		out = append(out, Candidate{
			FrameNumber: frame.FrameNumber,
			Label:       label,
			Confidence:  conf,
			Severity:    sev,
		})
	}

	if conf, ok := e.handling(objects); ok {
		emit(LabelHandlingDrill, conf, models.SeverityWarning)
	}
	if conf, ok := e.brokenCylinder(objects); ok {
		emit(LabelBrokenCylinder, conf, models.SeverityWarning)
	}
	if conf, ok := e.rodAssisted(objects); ok {
		emit(LabelRodAssisted, conf, models.SeverityCritical)
	}
	if conf, ok := e.collision(objects); ok {
		emit(LabelLHCollision, conf, models.SeverityCritical)
	}
	return out
}

// EvaluateAll runs Evaluate over every frame in order
func (e *Evaluator) EvaluateAll(frames []models.FrameDetections) []Candidate {
	var out []Candidate
	for _, f := range frames {
		out = append(out, e.Evaluate(f)...)
	}
	return out
}

func (e *Evaluator) handling(objects map[string][]models.DetectedObject) (float64, bool) {
	best, found := 0.0, false
	th := e.rules.Handling
	for _, person := range objects[models.LabelPerson] {
		for _, drill := range objects[models.LabelDrill] {
			if !CloseAndAligned(person.Box, drill.Box, th.Horizontal, th.Vertical) {
				continue
			}
			conf := mean(person.Confidence, drill.Confidence)
			if conf >= e.rules.HandlingMinConf && conf > best {
				best, found = conf, true
			}
		}
	}
	return best, found
}

func (e *Evaluator) brokenCylinder(objects map[string][]models.DetectedObject) (float64, bool) {
	best, found := 0.0, false
	for _, cyl := range objects[models.LabelCylinder] {
		if cyl.Confidence >= e.rules.CylinderMinConf && cyl.Confidence > best {
			best, found = cyl.Confidence, true
		}
	}
	return best, found
}

// rodAssisted needs a beam near a drill and a person near that same beam
func (e *Evaluator) rodAssisted(objects map[string][]models.DetectedObject) (float64, bool) {
	best, found := 0.0, false
	th := e.rules.RodAssisted
	for _, beam := range objects[models.LabelBeam] {
		for _, drill := range objects[models.LabelDrill] {
			if !CloseAndAligned(beam.Box, drill.Box, th.Horizontal, th.Vertical) {
				continue
			}
			for _, person := range objects[models.LabelPerson] {
				if !CloseAndAligned(person.Box, beam.Box, th.Horizontal, th.Vertical) {
					continue
				}
				conf := mean(person.Confidence, beam.Confidence, drill.Confidence)
				if conf >= e.rules.RodMinConf && conf > best {
					best, found = conf, true
				}
			}
		}
	}
	return best, found
}

func (e *Evaluator) collision(objects map[string][]models.DetectedObject) (float64, bool) {
	best, found := 0.0, false
	th := e.rules.Collision
	machines := objects[models.LabelLHMachine]
	for i := 0; i < len(machines); i++ {
		for j := i + 1; j < len(machines); j++ {
			if !CloseAndAligned(machines[i].Box, machines[j].Box, th.Horizontal, th.Vertical) {
				continue
			}
			conf := mean(machines[i].Confidence, machines[j].Confidence)
			if conf >= e.rules.CollisionMinConf && conf > best {
				best, found = conf, true
			}
		}
	}
	return best, found
}
