package domain_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/bundl/internal/core/domain"
)

func reg(p string) domain.ResolvedIdentity {
	return domain.ResolvedIdentity{Namespace: domain.NamespaceRegistry, Path: p}
}

func paths(ids []domain.ResolvedIdentity) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Path)
	}
	return out
}

func TestImportGraph_WalkDependenciesFirst(t *testing.T) {
	g := domain.NewImportGraph()
	entry := domain.ResolvedIdentity{Namespace: domain.NamespaceVirtual, Path: "index.js"}

	g.Record("", entry)
	g.Record("index.js", reg("b"))
	g.Record("index.js", reg("a"))
	g.Record("a", reg("c"))
	g.Record("b", reg("c"))

	assert.Equal(t, []string{"c", "a", "b", "index.js"}, paths(g.Order()))
	assert.Equal(t, 4, g.Len())
	assert.Equal(t, []string{"a", "b"}, g.Imports("index.js"))
}

func TestImportGraph_ToleratesCycles(t *testing.T) {
	g := domain.NewImportGraph()
	g.Record("", reg("a"))
	g.Record("a", reg("b"))
	g.Record("b", reg("a"))
	g.Record("b", reg("b"))

	assert.Equal(t, []string{"b", "a"}, paths(g.Order()))
}

func TestImportGraph_DetachedCycle(t *testing.T) {
	g := domain.NewImportGraph()
	g.Record("x", reg("y"))
	g.Record("y", reg("x"))
	g.Record("", reg("y"))
	g.Record("", reg("x"))

	assert.Equal(t, []string{"y", "x"}, paths(g.Order()))
}

func TestImportGraph_DuplicateEdges(t *testing.T) {
	g := domain.NewImportGraph()
	g.Record("", reg("a"))
	g.Record("a", reg("b"))
	g.Record("a", reg("b"))

	assert.Equal(t, []string{"b"}, g.Imports("a"))
}

func TestImportGraph_WalkStopsEarly(t *testing.T) {
	g := domain.NewImportGraph()
	g.Record("", reg("a"))
	g.Record("a", reg("b"))

	var seen []string
	for id := range g.Walk() {
		seen = append(seen, id.Path)
		break
	}
	assert.Equal(t, []string{"b"}, seen)
}

func TestImportGraph_ConcurrentRecord(t *testing.T) {
	g := domain.NewImportGraph()
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Record("", reg("root"))
			g.Record("root", reg("dep"))
		}()
	}
	wg.Wait()

	require.Equal(t, 2, g.Len())
	assert.Equal(t, []string{"dep"}, g.Imports("root"))
}
