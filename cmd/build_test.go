package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/remix/internal/domain"
	m "github.com/mouse-blink/remix/internal/model"
)

// stubPipeline records the args the command wired up.
type stubPipeline struct {
	args   domain.BuildArgs
	called bool
	err    error
}

func (s *stubPipeline) Build(_ context.Context, args domain.BuildArgs) error {
	s.args = args
	s.called = true

	return s.err
}

func executeBuild(t *testing.T, stub *stubPipeline, args ...string) error {
	t.Helper()

	cmd := baseRootCmd()
	configureRootFlags(cmd)
	cmd.AddCommand(newBuildCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalPipeline := pipeline
	pipeline = stub

	t.Cleanup(func() { pipeline = originalPipeline })

	cmd.SetArgs(append([]string{"build"}, args...))

	return cmd.Execute()
}

func TestBuildCmd_DefaultArgs(t *testing.T) {
	stub := &stubPipeline{}

	require.NoError(t, executeBuild(t, stub))
	require.True(t, stub.called)

	assert.Equal(t, m.Path("."), stub.args.Source)
	assert.Equal(t, m.Path(defaultOutputDir), stub.args.Output)
	assert.Equal(t, defaultParallel, stub.args.Threads)
}

func TestBuildCmd_SourceAndOutput(t *testing.T) {
	stub := &stubPipeline{}

	require.NoError(t, executeBuild(t, stub, "./app", "--output", "variant"))
	require.True(t, stub.called)

	assert.Equal(t, m.Path("./app"), stub.args.Source)
	assert.Equal(t, m.Path("variant"), stub.args.Output)
}

func TestBuildCmd_ParallelFlag(t *testing.T) {
	stub := &stubPipeline{}

	require.NoError(t, executeBuild(t, stub, "--parallel", "4"))
	require.True(t, stub.called)

	assert.Equal(t, 4, stub.args.Threads)
}

func TestBuildCmd_DescriptorOverrides(t *testing.T) {
	stub := &stubPipeline{}

	require.NoError(t, executeBuild(t, stub, "--name", "renamed", "--app-version", "3.0.0"))
	require.True(t, stub.called)

	assert.Equal(t, "renamed", stub.args.Overrides.Name)
	assert.Equal(t, "3.0.0", stub.args.Overrides.Version)
}

func TestBuildCmd_PipelineErrorPropagates(t *testing.T) {
	stub := &stubPipeline{err: errors.New("engine missing")}

	err := executeBuild(t, stub)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine missing")
}
