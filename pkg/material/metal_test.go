package material

import (
	"math/rand"
	"testing"

	"github.com/df07/go-sky-pathtracer/pkg/core"
)

func TestNewMetal_KeepsFuzz(t *testing.T) {
	tests := []struct {
		name         string
		inputFuzz    float64
		expectedFuzz float64
	}{
		{"Valid fuzz 0.0", 0.0, 0.0},
		{"Valid fuzz 0.5", 0.5, 0.5},
		{"Valid fuzz 1.0", 1.0, 1.0},
		{"Above 1.0 left for validation", 1.5, 1.5},
		{"Below 0.0 left for validation", -0.5, -0.5},
	}

	albedo := core.NewVec3(0.8, 0.8, 0.8)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metal := NewMetal(albedo, tt.inputFuzz)
			if metal.Fuzz != tt.expectedFuzz {
				t.Errorf("Expected fuzz %f, got %f", tt.expectedFuzz, metal.Fuzz)
			}
		})
	}
}

func TestMetal_PerfectReflection(t *testing.T) {
	metal := NewDefaultMetal(0.0)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	// Ray hitting surface at 45 degrees
	rayIn := core.NewRay(core.NewVec3(0, 1, 1), core.NewVec3(0, -1, -1))
	hit := HitRecord{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 0, 1),
	}

	scatter, didScatter := metal.Scatter(rayIn, hit, sampler)
	if !didScatter {
		t.Fatal("Metal should scatter")
	}

	expected := core.NewVec3(0, -1, 1).Normalize()
	if !scatter.Scattered.Direction.ApproxEquals(expected, 1e-10) {
		t.Errorf("Perfect reflection failed: expected %v, got %v", expected, scatter.Scattered.Direction)
	}

	if !scatter.Attenuation.Equals(core.NewVec3(0.8, 0.8, 0.8)) {
		t.Errorf("Expected attenuation 0.8, got %v", scatter.Attenuation)
	}
	if scatter.Scattered.Origin != hit.Point {
		t.Errorf("Scattered ray should start at hit point, got %v", scatter.Scattered.Origin)
	}
}

func TestMetal_FuzzyReflection(t *testing.T) {
	metal := NewDefaultMetal(0.5)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	rayIn := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))
	hit := HitRecord{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 0, 1),
	}

	directions := make([]core.Vec3, 10)
	for i := 0; i < 10; i++ {
		scatter, didScatter := metal.Scatter(rayIn, hit, sampler)
		if !didScatter {
			// With fuzz 0.5 the perturbed direction can never reach the surface plane head-on
			t.Fatalf("Metal should scatter on iteration %d", i)
		}
		directions[i] = scatter.Scattered.Direction
	}

	allSame := true
	for i := 1; i < len(directions); i++ {
		if directions[i].Subtract(directions[0]).Length() > 1e-10 {
			allSame = false
			break
		}
	}
	if allSame {
		t.Error("Fuzzy metal should produce varying reflection directions")
	}

	for i, dir := range directions {
		if dir.Dot(hit.Normal) <= 0 {
			t.Errorf("Scattered ray %d should be above surface, got dot product %f", i, dir.Dot(hit.Normal))
		}
	}
}

func TestMetal_ScatterAbsorption(t *testing.T) {
	// Grazing incidence with maximum fuzz pushed straight down
	metal := NewDefaultMetal(1.0)
	sampler := core.NewConstantSampler(1, 0, 0) // -Z unit vector

	rayIn := core.NewRay(core.NewVec3(-1, 0, 0.01), core.NewVec3(1, 0, -0.01))
	hit := HitRecord{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 0, 1),
	}

	if _, didScatter := metal.Scatter(rayIn, hit, sampler); didScatter {
		t.Error("Expected ray perturbed into the surface to be absorbed")
	}
}

func TestMetal_AbsorbsWhenPerturbationCancelsReflection(t *testing.T) {
	metal := NewDefaultMetal(1.0)
	// Head-on reflection is +Z; the -Z sample cancels it to the zero vector
	sampler := core.NewConstantSampler(1, 0, 0)

	rayIn := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))
	hit := HitRecord{Normal: core.NewVec3(0, 0, 1)}

	if _, didScatter := metal.Scatter(rayIn, hit, sampler); didScatter {
		t.Error("Expected a zero perturbed direction to be absorbed")
	}
}
