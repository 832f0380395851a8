package linker

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/agentx-labs/metrolink/internal/manifest"
	"github.com/agentx-labs/metrolink/internal/platform"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modules = "/app/node_modules"

// layout builds an in-memory install directory.
type layout struct {
	t  *testing.T
	fs *platform.MemFS
}

func newLayout(t *testing.T) *layout {
	t.Helper()
	m := platform.NewMemFS()
	require.NoError(t, m.MkdirAll(modules))
	return &layout{t: t, fs: m}
}

func (l *layout) regular(names ...string) *layout {
	l.t.Helper()
	for _, n := range names {
		require.NoError(l.t, l.fs.WriteFile(filepath.Join(modules, n, "package.json"), []byte(`{"name":"`+n+`"}`)))
	}
	return l
}

// linked creates a working copy under /work/<name> holding manifest and links
// it into the install directory.
func (l *layout) linked(name, manifestJSON string) *layout {
	l.t.Helper()
	work := filepath.Join("/work", name)
	require.NoError(l.t, l.fs.WriteFile(filepath.Join(work, "package.json"), []byte(manifestJSON)))
	require.NoError(l.t, l.fs.Symlink(work, filepath.Join(modules, name)))
	return l
}

func (l *layout) resolve(names ...string) (*Result, error) {
	return New(l.fs, modules).Resolve(names)
}

func TestResolveNoSymlinks(t *testing.T) {
	l := newLayout(t).regular("react", "react-native", "lodash")

	res, err := l.resolve("react", "react-native", "lodash", "not-installed")
	require.NoError(t, err)

	assert.Empty(t, res.Libs)
	assert.Empty(t, res.Dependents)
	assert.Empty(t, res.Roots())
	require.Len(t, res.Entries, 4)
	assert.Equal(t, KindRegular, res.Entries[0].Kind)
	assert.Equal(t, KindMissing, res.Entries[3].Kind)
}

func TestResolveSingleLinkedLibrary(t *testing.T) {
	// A is linked and depends on X and C; B and C are regular installs.
	l := newLayout(t).
		regular("B", "C").
		linked("A", `{"name":"A","dependencies":{"X":"^1.0.0","C":"*"}}`)

	res, err := l.resolve("A", "B", "C")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"A": "/work/A"}, res.Libs)
	// C is a regular direct dependency, not linked, so it stays a dependent.
	assert.Equal(t, []string{"X", "C"}, res.Dependents)
	assert.Equal(t, []string{"/work/A"}, res.Roots())

	entry := res.Entries[0]
	assert.Equal(t, KindLinked, entry.Kind)
	assert.Equal(t, "/work/A", entry.Target)
	assert.Equal(t, "/work/A", entry.RealPath)
	assert.Equal(t, "/app/node_modules/A", entry.Path)
}

func TestResolvePeerDependenciesFollowDependencies(t *testing.T) {
	l := newLayout(t).linked("ui-kit", `{
		"name": "ui-kit",
		"dependencies": {"color": "^3.0.0", "react": "^16.0.0"},
		"peerDependencies": {"react": "*", "react-native": "*"}
	}`)

	res, err := l.resolve("ui-kit")
	require.NoError(t, err)

	assert.Equal(t, []string{"color", "react", "react-native"}, res.Dependents)
}

func TestResolveLatePromotion(t *testing.T) {
	// A lists D before D is reached by the outer pass; D is linked too.
	l := newLayout(t).
		linked("A", `{"name":"A","dependencies":{"D":"*","E":"*"}}`).
		linked("D", `{"name":"D","dependencies":{"F":"*"}}`)

	res, err := l.resolve("A", "D")
	require.NoError(t, err)

	assert.Contains(t, res.Libs, "D")
	assert.False(t, res.IsDependent("D"))
	assert.NotContains(t, res.Contributors, "D")
	assert.Equal(t, []string{"E", "F"}, res.Dependents)
	assert.Equal(t, []string{"A", "D"}, res.LibraryNames())
	assert.Equal(t, []string{"/work/A", "/work/D"}, res.Roots())
}

func TestResolveEarlierLibraryExcluded(t *testing.T) {
	// D is linked before A names it, so it is never added.
	l := newLayout(t).
		linked("D", `{"name":"D"}`).
		linked("A", `{"name":"A","peerDependencies":{"D":"*"}}`)

	res, err := l.resolve("D", "A")
	require.NoError(t, err)

	assert.Empty(t, res.Dependents)
	assert.Len(t, res.Libs, 2)
}

func TestResolveDeduplicatesAcrossLibraries(t *testing.T) {
	l := newLayout(t).
		linked("A", `{"name":"A","dependencies":{"react":"*","shared":"*"}}`).
		linked("B", `{"name":"B","dependencies":{"shared":"*"},"peerDependencies":{"react":"*"}}`)

	res, err := l.resolve("A", "B")
	require.NoError(t, err)

	assert.Equal(t, []string{"react", "shared"}, res.Dependents)
	assert.Equal(t, []string{"A", "B"}, res.Contributors["shared"])
	assert.Equal(t, []string{"A", "B"}, res.Contributors["react"])
}

func TestResolveInvariants(t *testing.T) {
	l := newLayout(t).
		regular("lodash").
		linked("A", `{"name":"A","dependencies":{"B":"*","lodash":"*","x":"*"}}`).
		linked("B", `{"name":"B","dependencies":{"A":"*","y":"*"},"peerDependencies":{"x":"*"}}`).
		linked("C", `{"name":"C","peerDependencies":{"B":"*","y":"*","z":"*"}}`)

	res, err := l.resolve("lodash", "A", "B", "C", "ghost")
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, d := range res.Dependents {
		assert.False(t, seen[d], "duplicate dependent %s", d)
		seen[d] = true

		assert.NotContains(t, res.Libs, d, "linked library %s listed as dependent", d)

		contributors := res.Contributors[d]
		require.NotEmpty(t, contributors, "dependent %s has no contributor", d)
		for _, lib := range contributors {
			m, err := manifest.LoadDir(l.fs, res.Libs[lib])
			require.NoError(t, err)
			_, inDeps := m.Dependencies.Get(d)
			_, inPeers := m.PeerDependencies.Get(d)
			assert.True(t, inDeps || inPeers, "%s does not declare %s", lib, d)
		}
	}
	assert.Equal(t, []string{"lodash", "x", "y", "z"}, res.Dependents)
}

func TestResolveDeterministic(t *testing.T) {
	l := newLayout(t).
		regular("B").
		linked("A", `{"name":"A","dependencies":{"X":"*","B":"*"},"peerDependencies":{"Y":"*"}}`).
		linked("C", `{"name":"C","dependencies":{"A":"*","Z":"*"}}`)

	first, err := l.resolve("A", "B", "C")
	require.NoError(t, err)
	second, err := l.resolve("A", "B", "C")
	require.NoError(t, err)

	assert.Equal(t, first.Libs, second.Libs)
	assert.Equal(t, first.Dependents, second.Dependents)
	assert.Equal(t, first.Entries, second.Entries)
}

func TestResolveRepeatedNameClassifiedOnce(t *testing.T) {
	l := newLayout(t).linked("A", `{"name":"A","dependencies":{"X":"*"}}`)

	res, err := l.resolve("A", "A")
	require.NoError(t, err)
	assert.Len(t, res.Entries, 1)
	assert.Equal(t, []string{"X"}, res.Dependents)
}

func TestResolveScopedPackage(t *testing.T) {
	l := newLayout(t).linked("@acme/theme", `{"name":"@acme/theme","peerDependencies":{"@acme/tokens":"*"}}`)

	res, err := l.resolve("@acme/theme")
	require.NoError(t, err)

	assert.Equal(t, "/work/@acme/theme", res.Libs["@acme/theme"])
	assert.Equal(t, []string{"@acme/tokens"}, res.Dependents)
}

func TestResolveRelativeLinkTarget(t *testing.T) {
	l := newLayout(t)
	require.NoError(t, l.fs.WriteFile("/src/lib/package.json", []byte(`{"name":"lib","dependencies":{"q":"*"}}`)))
	require.NoError(t, l.fs.Symlink("../../src/lib", "/app/node_modules/lib"))

	res, err := l.resolve("lib")
	require.NoError(t, err)

	assert.Equal(t, "/src/lib", res.Libs["lib"])
	assert.Equal(t, "../../src/lib", res.Entries[0].Target)
}

func TestResolveManifestFailuresAreFatal(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(l *layout)
		notExist bool
	}{
		{
			name: "missing manifest",
			setup: func(l *layout) {
				require.NoError(t, l.fs.MkdirAll("/work/A"))
				require.NoError(t, l.fs.Symlink("/work/A", "/app/node_modules/A"))
			},
			notExist: true,
		},
		{
			name: "malformed manifest",
			setup: func(l *layout) {
				l.linked("A", `{"name": "A", "dependencies": `)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLayout(t).regular("B")
			tt.setup(l)

			res, err := l.resolve("B", "A")
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrManifest)

			var me *ManifestError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, "A", me.Library)
			assert.Equal(t, "/work/A/package.json", me.Path)

			if tt.notExist {
				assert.ErrorIs(t, err, fs.ErrNotExist)
			} else {
				assert.ErrorIs(t, err, manifest.ErrMalformed)
			}
		})
	}
}

func TestResolveDanglingLinkIsFatal(t *testing.T) {
	l := newLayout(t)
	require.NoError(t, l.fs.Symlink("/work/gone", "/app/node_modules/gone"))

	_, err := l.resolve("gone")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrManifest)
	assert.Contains(t, err.Error(), `resolving linked library "gone"`)
}

func TestResolveLogsPromotion(t *testing.T) {
	l := newLayout(t).
		linked("A", `{"name":"A","dependencies":{"D":"*"}}`).
		linked("D", `{"name":"D"}`)

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.InfoLevel)

	_, err := New(l.fs, modules, WithLogger(logger)).Resolve([]string{"A", "D", "absent"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Promoted from dependent to linked library")
	assert.Contains(t, out, `"dependency":"absent"`)
}

func TestDirectNames(t *testing.T) {
	m, err := manifest.Parse([]byte(`{
		"dependencies": {"react": "*", "theme": "*"},
		"devDependencies": {"jest": "*", "theme": "*"}
	}`), "package.json")
	require.NoError(t, err)

	assert.Equal(t, []string{"react", "theme"}, DirectNames(m, false))
	assert.Equal(t, []string{"react", "theme", "jest"}, DirectNames(m, true))
}
