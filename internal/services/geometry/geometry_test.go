package geometry

import (
	"math/rand/v2"
	"testing"

	"github.com/killallgit/minewatch-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// box returns a 20x20 box centered at (cx, cy)
func box(cx, cy float64) models.BoundingBox {
	return models.BoundingBox{X1: cx - 10, Y1: cy - 10, X2: cx + 10, Y2: cy + 10}
}

func obj(label string, cx, cy, conf float64) models.DetectedObject {
	return models.DetectedObject{Label: label, Box: box(cx, cy), Confidence: conf}
}

func TestCloseAndAlignedBoundary(t *testing.T) {
	a, b := box(0, 0), box(300, 200)

	assert.True(t, CloseAndAligned(a, b, 350, 250))
	assert.False(t, CloseAndAligned(a, b, 300, 250), "horizontal distance equal to threshold")
	assert.False(t, CloseAndAligned(a, b, 350, 200), "vertical distance equal to threshold")
}

func TestCloseAndAlignedSymmetric(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 500 {
		a := models.BoundingBox{X1: r.Float64() * 1000, Y1: r.Float64() * 1000}
		a.X2, a.Y2 = a.X1+r.Float64()*200, a.Y1+r.Float64()*200
		b := models.BoundingBox{X1: r.Float64() * 1000, Y1: r.Float64() * 1000}
		b.X2, b.Y2 = b.X1+r.Float64()*200, b.Y1+r.Float64()*200
		h, v := r.Float64()*500, r.Float64()*500

		assert.Equal(t, CloseAndAligned(a, b, h, v), CloseAndAligned(b, a, h, v))
	}
}

func TestCollisionRule(t *testing.T) {
	frame := models.FrameDetections{
		FrameNumber: 30,
		Objects: []models.DetectedObject{
			obj(models.LabelLHMachine, 0, 0, 0.8),
			obj(models.LabelLHMachine, 300, 200, 0.8),
		},
	}

	got := NewEvaluator(DefaultRules()).Evaluate(frame)
	require.Len(t, got, 1)
	assert.Equal(t, LabelLHCollision, got[0].Label)
	assert.Equal(t, models.SeverityCritical, got[0].Severity)
	assert.InDelta(t, 0.8, got[0].Confidence, 1e-9)
	assert.Equal(t, 30, got[0].FrameNumber)

	tight := DefaultRules()
	tight.Collision = Threshold{Horizontal: 300, Vertical: 250}
	assert.Empty(t, NewEvaluator(tight).Evaluate(frame))
}

func TestHandlingRule(t *testing.T) {
	tests := []struct {
		name    string
		objects []models.DetectedObject
		fires   bool
	}{
		{
			name:    "person next to drill",
			objects: []models.DetectedObject{obj("person", 100, 100, 0.9), obj("drill", 150, 150, 0.8)},
			fires:   true,
		},
		{
			name:    "too far horizontally",
			objects: []models.DetectedObject{obj("person", 100, 100, 0.9), obj("drill", 220, 100, 0.8)},
		},
		{
			name:    "mean confidence too low",
			objects: []models.DetectedObject{obj("person", 100, 100, 0.7), obj("drill", 110, 100, 0.6)},
		},
		{
			name:    "mean confidence at minimum",
			objects: []models.DetectedObject{obj("person", 100, 100, 0.8), obj("drill", 110, 100, 0.6)},
			fires:   true,
		},
		{
			name:    "no drill",
			objects: []models.DetectedObject{obj("person", 100, 100, 0.9)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewEvaluator(DefaultRules()).Evaluate(models.FrameDetections{Objects: tt.objects})
			if !tt.fires {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, LabelHandlingDrill, got[0].Label)
			assert.Equal(t, models.SeverityWarning, got[0].Severity)
		})
	}
}

func TestBrokenCylinderRule(t *testing.T) {
	e := NewEvaluator(DefaultRules())

	got := e.Evaluate(models.FrameDetections{Objects: []models.DetectedObject{
		obj("cylinder", 0, 0, 0.5),
		obj("cylinder", 500, 500, 0.81),
	}})
	require.Len(t, got, 1)
	assert.Equal(t, LabelBrokenCylinder, got[0].Label)
	assert.InDelta(t, 0.81, got[0].Confidence, 1e-9)

	assert.Empty(t, e.Evaluate(models.FrameDetections{Objects: []models.DetectedObject{obj("cylinder", 0, 0, 0.75)}}))
}

func TestRodAssistedRule(t *testing.T) {
	e := NewEvaluator(DefaultRules())

	// drill and person are both within 220/180 of the beam but 400px apart
	// from each other, so only the rod rule can fire.
	objects := []models.DetectedObject{
		obj("drill", 0, 100, 0.75),
		obj("rod", 200, 100, 0.8),
		obj("person", 400, 100, 0.85),
	}
	got := e.Evaluate(models.FrameDetections{FrameNumber: 9, Objects: objects})
	require.Len(t, got, 1)
	assert.Equal(t, LabelRodAssisted, got[0].Label)
	assert.Equal(t, models.SeverityCritical, got[0].Severity)
	assert.InDelta(t, 0.8, got[0].Confidence, 1e-9)

	// person near a different beam than the one touching the drill
	split := []models.DetectedObject{
		obj("drill", 0, 100, 0.9),
		obj("beam", 200, 100, 0.9),
		obj("beam", 1000, 100, 0.9),
		obj("person", 1150, 100, 0.9),
	}
	assert.Empty(t, e.Evaluate(models.FrameDetections{Objects: split}))
}

func TestMultipleRulesSameFrame(t *testing.T) {
	objects := []models.DetectedObject{
		obj("person", 100, 100, 0.9),
		obj("drill", 150, 120, 0.9),
		obj("cylinder", 800, 800, 0.9),
		obj("lh_machine", 0, 600, 0.9),
		obj("lh_machine", 100, 650, 0.9),
	}

	got := NewEvaluator(DefaultRules()).Evaluate(models.FrameDetections{FrameNumber: 4, Objects: objects})
	labels := make([]string, 0, len(got))
	for _, c := range got {
		assert.Equal(t, 4, c.FrameNumber)
		labels = append(labels, c.Label)
	}
	assert.ElementsMatch(t, []string{LabelHandlingDrill, LabelBrokenCylinder, LabelLHCollision}, labels)
}

func TestEvaluateAll(t *testing.T) {
	frames := []models.FrameDetections{
		{FrameNumber: 1, Objects: []models.DetectedObject{obj("cylinder", 0, 0, 0.9)}},
		{FrameNumber: 2},
		{FrameNumber: 3, Objects: []models.DetectedObject{obj("cylinder", 0, 0, 0.95)}},
	}
	got := NewEvaluator(DefaultRules()).EvaluateAll(frames)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].FrameNumber)
	assert.Equal(t, 3, got[1].FrameNumber)
}
