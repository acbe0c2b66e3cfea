package debugui

import (
	"github.com/plus3/scene2d/ecs"
)

type EntityBrowserComponent struct {
	cache              *EntityBrowserCache
	selectedEntity     ecs.Entity
	filterText         string
	filterKind         *ecs.Kind
	maxEntitiesPerPage int
	currentPage        int
}

type ComponentInspectorComponent struct {
	selectedEntity ecs.Entity
}

type TransformViewerComponent struct {
	cache        *TransformViewerCache
	selectedSlot *uint32
	showFree     bool
	maxRows      int
	currentPage  int
}

type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

type KindQueryComponent struct {
	selectedKinds map[ecs.Kind]bool
	cache         *KindQueryCache
	maxRows       int
}
