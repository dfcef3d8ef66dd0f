package postprocess

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livefir/tagcompiler/internal/sourcemap"
)

func appendText(name, suffix string) Postprocessor {
	return Named(name, func(code string, meta Meta) (Output, error) {
		return Output{Code: code + suffix}, nil
	})
}

func TestExecuteOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(appendText("a", "-a")))
	require.NoError(t, r.Register(appendText("b", "-b")))

	out, err := r.Execute(Output{Code: "code"}, Meta{File: "x.tag"})
	require.NoError(t, err)
	assert.Equal(t, "code-a-b", out.Code)
}

func TestExecuteEmptyRegistry(t *testing.T) {
	m := sourcemap.New("x.tag", "code")
	out, err := NewRegistry().Execute(Output{Code: "code", Map: m}, Meta{})
	require.NoError(t, err)
	assert.Equal(t, "code", out.Code)
	assert.Same(t, m, out.Map)
}

func TestRegistryErrors(t *testing.T) {
	r := NewRegistry()
	p := appendText("a", "")
	require.NoError(t, r.Register(p))

	err := r.Register(appendText("a", "other"))
	var already ErrAlreadyRegistered
	require.True(t, errors.As(err, &already))
	assert.Equal(t, "a", already.Name)

	require.NoError(t, r.Unregister(p))
	assert.Equal(t, 0, r.Len())

	err = r.Unregister(p)
	assert.True(t, errors.As(err, new(ErrNotRegistered)))
}

func TestUnregisterKeepsOrder(t *testing.T) {
	r := NewRegistry()
	a, b, c := appendText("a", "a"), appendText("b", "b"), appendText("c", "c")
	for _, p := range []Postprocessor{a, b, c} {
		require.NoError(t, r.Register(p))
	}
	require.NoError(t, r.Unregister(b))

	out, err := r.Execute(Output{}, Meta{})
	require.NoError(t, err)
	assert.Equal(t, "ac", out.Code)
}

func TestRegistriesAreIndependent(t *testing.T) {
	first, second := NewRegistry(), NewRegistry()
	require.NoError(t, first.Register(appendText("a", "!")))

	out, err := second.Execute(Output{Code: "x"}, Meta{})
	require.NoError(t, err)
	assert.Equal(t, "x", out.Code)
}

func TestExecuteFailure(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry()
	require.NoError(t, r.Register(Named("bad", func(string, Meta) (Output, error) {
		return Output{}, boom
	})))

	_, err := r.Execute(Output{Code: "x"}, Meta{File: "x.tag"})
	var failed *ErrFailed
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, "bad", failed.Name)
	assert.True(t, errors.Is(err, boom))
}

func TestExecuteComposesMaps(t *testing.T) {
	source := "line one\nline two"
	r := NewRegistry()
	// prepends a banner line, shifting every generated line down by one
	require.NoError(t, r.Register(Named("banner", func(code string, meta Meta) (Output, error) {
		lines := [][]sourcemap.Segment{nil}
		for i := range strings.Split(code, "\n") {
			lines = append(lines, []sourcemap.Segment{{HasSource: true, SourceLine: i}})
		}
		return Output{
			Code: "// banner\n" + code,
			Map:  &sourcemap.Map{Version: sourcemap.Version, Sources: []string{meta.File}, Mappings: sourcemap.Encode(lines)},
		}, nil
	})))

	out, err := r.Execute(Output{Code: source, Map: sourcemap.New("x.tag", source)}, Meta{File: "x.js"})
	require.NoError(t, err)

	seg, ok, err := out.Map.Lookup(2, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, seg.SourceLine)
	assert.Equal(t, []string{"x.tag"}, out.Map.Sources)
}
