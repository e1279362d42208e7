package main

import (
	"fmt"
	"log"
	"os"
)

// The command-line harness generates a small sphere-like stack and prints
// per-layer statistics, exercising the formula engine, generation and the
// 3D boundary end to end.
func main() {
	app := NewApp()

	if err := app.SetLayerRange(-5, 5); err != nil {
		log.Fatalf("layer range: %v", err)
	}
	if err := app.SetHeuristicAll("centerpoint", 0); err != nil {
		log.Fatalf("heuristic: %v", err)
	}

	// Sphere of radius 5: horizontal section radius at height l.
	for _, param := range []string{"radius_a", "radius_b"} {
		if status := app.SetCode(param, "sqrt(max(0.01, 25.0 - l * l))"); status.Error != "" {
			log.Fatalf("%s formula: %s", param, status.Error)
		}
	}

	result := app.Generate()
	for _, fe := range result.FieldErrors {
		fmt.Fprintf(os.Stderr, "field error on layer %d: %s\n", fe.Layer, fe.Message)
	}

	for _, lr := range result.Layers {
		if lr.Error != "" {
			fmt.Printf("layer %3d: error: %s\n", lr.Layer, lr.Error)
			continue
		}
		fmt.Printf("layer %3d: %s blocks, %s, symmetry: %s\n",
			lr.Layer, lr.Metrics.CountText, lr.Metrics.DiameterText, lr.Metrics.Symmetry)
	}

	boundary := app.Boundary3D(true, true)
	exposed := 0
	for _, lb := range boundary {
		exposed += len(lb.Blocks)
	}
	fmt.Printf("exposed blocks in 3D boundary: %d\n", exposed)

	mesh := app.PreviewMesh(true, true)
	if mesh.Error != "" {
		log.Fatalf("preview mesh: %s", mesh.Error)
	}
	fmt.Printf("preview mesh: %d vertices, %d triangles\n",
		len(mesh.Vertices)/3, len(mesh.Indices)/3)
}
