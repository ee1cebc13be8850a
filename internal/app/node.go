package app

import (
	"context"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/adapters/output"    //nolint:depguard // Wired in app layer
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/ports"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/engine/compiler"
	"github.com/grindlemire/graft"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized components the CLI layer needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			compiler.NodeID,
			output.NodeID,
			telemetry.TracerNodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{AppNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ComponentLoader](ctx)
	if err != nil {
		return nil, err
	}
	comp, err := graft.Dep[ports.Compiler](ctx)
	if err != nil {
		return nil, err
	}
	writer, err := graft.Dep[ports.DocumentWriter](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	watch, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	return New(loader, comp, writer, tracer, watch, log), nil
}
