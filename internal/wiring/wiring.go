// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/adapters/config"
	_ "github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/adapters/logger"
	_ "github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/adapters/output"
	_ "github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/adapters/telemetry"
	_ "github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/app"
	_ "github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/engine/argo"
	_ "github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/engine/compiler"
	_ "github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/engine/vertex"
)
