package ecs

import (
	"reflect"
	"strings"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	Frames          uint64
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Scheduler runs the systems of one scene in registration order.
type Scheduler struct {
	scene       *Scene
	systems     []System
	systemStats []*systemStatsInternal
	commands    *Commands
	frame       uint64
	shutdown    bool
}

func newScheduler(scene *Scene) *Scheduler {
	return &Scheduler{
		scene:    scene,
		systems:  make([]System, 0),
		commands: newCommands(),
	}
}

// Register initializes the system's View, Query and Resource fields, calls its
// Initialize and appends it to the run order.
func (s *Scheduler) Register(system System) {
	s.initializeFields(system)
	system.Initialize(s.scene)
	s.systems = append(s.systems, system)

	s.systemStats = append(s.systemStats, &systemStatsInternal{
		name:        systemName(system),
		minDuration: time.Duration(1<<63 - 1),
	})
}

func systemName(system System) string {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	if name := systemType.Name(); name != "" {
		return name
	}
	return systemType.String()
}

var initializedFieldPrefixes = []string{"View[", "Query[", "Resource["}

func (s *Scheduler) initializeFields(system System) {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}

	if systemValue.Kind() != reflect.Struct {
		return
	}

	systemType := systemValue.Type()

	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		fieldType := systemType.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() != reflect.Struct {
			continue
		}

		typeName := field.Type().Name()
		for _, prefix := range initializedFieldPrefixes {
			if !strings.HasPrefix(typeName, prefix) {
				continue
			}

			initMethod := field.Addr().MethodByName("Init")
			if !initMethod.IsValid() {
				panic("Init method not found on " + strings.TrimSuffix(prefix, "[") + " field: " + fieldType.Name)
			}

			initMethod.Call([]reflect.Value{
				reflect.ValueOf(s.scene),
			})
			break
		}
	}
}

// Once executes all registered systems once with the given delta time,
// then flushes the commands they queued.
func (s *Scheduler) Once(dt float64) {
	s.frame++
	frame := newUpdateFrame(dt, s.frame, s.scene, s.commands)

	for i, system := range s.systems {
		start := time.Now()
		system.Update(frame)
		duration := time.Since(start)

		stats := s.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}

	s.commands.Flush(s.scene)
}

// Systems returns the registered systems in run order.
func (s *Scheduler) Systems() []System {
	return s.systems
}

// Shutdown calls Shutdown on every system in reverse registration order.
// Later calls do nothing.
func (s *Scheduler) Shutdown() {
	if s.shutdown {
		return
	}
	s.shutdown = true
	for i := len(s.systems) - 1; i >= 0; i-- {
		s.systems[i].Shutdown()
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Frames:      s.frame,
		Systems:     make([]SystemStats, len(s.systemStats)),
	}

	var totalExecs int64
	for i, internal := range s.systemStats {
		avgDuration := time.Duration(0)
		minDuration := internal.minDuration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		} else {
			minDuration = 0
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
