package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/scene2d/ecs"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	profileMode := flag.String("profile", "", "Write a profile: cpu, mem, allocs, block, mutex or trace.")
	profileDir := flag.String("profile-dir", ".", "Directory the profile is written to.")
	seed := flag.Int64("seed", 1, "Seed for the entity generator.")
	flag.Parse()

	if *profileMode != "" {
		mode, err := profileOption(*profileMode)
		if err != nil {
			log.Fatalf("Invalid -profile: %v", err)
		}
		defer profile.Start(mode, profile.ProfilePath(*profileDir), profile.NoShutdownHook).Stop()
	}

	log.Println("Starting ECS stress test...")

	// 1. Setup Registry and Scene
	registry := ecs.NewComponentRegistry()
	RegisterStressComponents(registry)
	scene := ecs.NewScene(registry,
		ecs.WithEntityCapacity(*entityCount),
		ecs.WithTransformCapacity(*entityCount),
	)
	RegisterStressSystems(scene)

	// 2. Populate the scene with initial entities
	log.Printf("Populating scene with %d entities...\n", *entityCount)
	rng := rand.New(rand.NewSource(*seed))
	for range *entityCount {
		SpawnRandomEntity(scene, rng)
	}
	log.Println("Population complete.")

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Components:     registry.Len(),
		Systems:        len(scene.Systems()),
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			scene.Update(float64(deltaTime) / float64(time.Second))
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	report.Scene = scene.CollectStats()
	report.Scheduler = scene.SchedulerStats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	scene.Shutdown()
	log.Println("Simulation finished.")

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}

func profileOption(mode string) (func(*profile.Profile), error) {
	switch mode {
	case "cpu":
		return profile.CPUProfile, nil
	case "mem":
		return profile.MemProfile, nil
	case "allocs":
		return profile.MemProfileAllocs, nil
	case "block":
		return profile.BlockProfile, nil
	case "mutex":
		return profile.MutexProfile, nil
	case "trace":
		return profile.TraceProfile, nil
	default:
		return nil, fmt.Errorf("unknown profile mode %q", mode)
	}
}
