package wiring_test

import (
	"testing"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/app"
	_ "github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/wiring"
	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
)

// TestGraftDependencies checks that every node declaring a dependency
// actually uses it, and every used dependency is declared.
func TestGraftDependencies(t *testing.T) {
	// graft.AssertDepsValid infers the dependency ID from the package name of
	// the type used in Dep[T]. Several nodes here provide interfaces from the
	// shared ports package, which it cannot tell apart.
	t.Skip("Skipping Graft validation due to static analysis limitation with shared ports package")
	graft.AssertDepsValid(t, "../../internal")
}

func TestGraftResolvesComponents(t *testing.T) {
	components, _, err := graft.ExecuteFor[*app.Components](t.Context())
	require.NoError(t, err)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
}
