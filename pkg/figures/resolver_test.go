package figures

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(64)
	require.NoError(t, err)
	return r
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		refs        []string
		members     []string
		wantFound   []string
		wantMissing []string
	}{
		{
			name:        "extension added",
			refs:        []string{"plots/fig1"},
			members:     []string{"plots/fig1.eps", "other.txt"},
			wantFound:   []string{"plots/fig1.eps"},
			wantMissing: []string{},
		},
		{
			name:        "no match",
			refs:        []string{"fig2"},
			members:     []string{"fig3.png"},
			wantFound:   []string{},
			wantMissing: []string{"fig2"},
		},
		{
			name:        "reference already has extension",
			refs:        []string{"a.png"},
			members:     []string{"src/a.png"},
			wantFound:   []string{"src/a.png"},
			wantMissing: []string{},
		},
		{
			name:        "case-insensitive",
			refs:        []string{"Figs/Plot"},
			members:     []string{"figs/plot.PDF"},
			wantFound:   []string{"figs/plot.PDF"},
			wantMissing: []string{},
		},
		{
			name:        "loose suffix match",
			refs:        []string{"fig1"},
			members:     []string{"subdir/prefix_fig1.png"},
			wantFound:   []string{"subdir/prefix_fig1.png"},
			wantMissing: []string{},
		},
		{
			name:        "regex metacharacters are literal",
			refs:        []string{"fig(1)+"},
			members:     []string{"fig1.png", "fig(1)+.jpg"},
			wantFound:   []string{"fig(1)+.jpg"},
			wantMissing: []string{},
		},
		{
			name:        "extension dot is literal",
			refs:        []string{"fig"},
			members:     []string{"figxpng"},
			wantFound:   []string{},
			wantMissing: []string{"fig"},
		},
		{
			name:        "one reference satisfied by several members",
			refs:        []string{"plot"},
			members:     []string{"plot.png", "plot.eps"},
			wantFound:   []string{"plot.eps", "plot.png"},
			wantMissing: []string{},
		},
		{
			name:        "one member satisfies two references",
			refs:        []string{"a/b", "b"},
			members:     []string{"a/b.pdf"},
			wantFound:   []string{"a/b.pdf"},
			wantMissing: []string{},
		},
		{
			name:        "no members",
			refs:        []string{"x", "y"},
			members:     nil,
			wantFound:   []string{},
			wantMissing: []string{"x", "y"},
		},
		{
			name:        "no references",
			refs:        nil,
			members:     []string{"x.png"},
			wantFound:   []string{},
			wantMissing: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newTestResolver(t).Resolve(tt.refs, tt.members)
			assert.Equal(t, tt.wantFound, got.Found)
			assert.Equal(t, tt.wantMissing, got.Missing)
		})
	}
}

func TestResolve_OrderIndependent(t *testing.T) {
	r := newTestResolver(t)
	members := []string{"img/a.png", "img/b.eps", "c.pdf", "notes.txt"}
	refs := []string{"img/a", "b", "c", "d"}

	first := r.Resolve(refs, members)
	reversedRefs := []string{"d", "c", "b", "img/a"}
	reversedMembers := []string{"notes.txt", "c.pdf", "img/b.eps", "img/a.png"}
	second := r.Resolve(reversedRefs, reversedMembers)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"c.pdf", "img/a.png", "img/b.eps"}, first.Found)
	assert.Equal(t, []string{"d"}, first.Missing)
}

func TestResolver_CacheBounded(t *testing.T) {
	r, err := NewResolver(2)
	require.NoError(t, err)

	r.Resolve([]string{"a", "b", "c"}, []string{"a.png"})
	assert.Equal(t, 2, r.Len())
}

func TestResolver_Concurrent(t *testing.T) {
	r := newTestResolver(t)
	members := []string{"fig1.png", "fig2.eps"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := r.Resolve([]string{"fig1", "fig2", "fig3"}, members)
			assert.Equal(t, []string{"fig1.png", "fig2.eps"}, got.Found)
			assert.Equal(t, []string{"fig3"}, got.Missing)
		}()
	}
	wg.Wait()
}

func TestNewResolver_InvalidSize(t *testing.T) {
	_, err := NewResolver(0)
	assert.Error(t, err)
}
