package lib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadGraphTriangle(t *testing.T) {
	g, colors, err := ReadGraph([]byte("3 3 1\n0 1\n0 2\n1 2\n"), false)
	require.NoError(t, err)
	require.Equal(t, 3, g.N)
	require.Equal(t, 3, g.E)
	require.Equal(t, []int{0, 0, 0}, colors)

	_, stats := searchCollect(t, g, false, colors)
	require.InDelta(t, 6.0, order(stats), 1e-9)
}

func TestReadGraphColorBoundaries(t *testing.T) {
	// two colors split at vertex 2; each color class swaps internally
	g, colors, err := ReadGraph([]byte("4 2 2\n2\n0 1\n2 3\n"), false)
	require.NoError(t, err)
	require.Equal(t, []int{0, 0, 1, 1}, colors)

	_, stats := searchCollect(t, g, false, colors)
	require.InDelta(t, 4.0, order(stats), 1e-9)
}

func TestReadGraphDigraph(t *testing.T) {
	g, colors, err := ReadGraph([]byte("3 3 1\n0 1\n1 2\n2 0\n"), true)
	require.NoError(t, err)
	require.NotNil(t, g.Dadj)

	_, stats := searchCollect(t, g, true, colors)
	require.InDelta(t, 3.0, order(stats), 1e-9)
}

func TestReadGraphErrors(t *testing.T) {
	_, _, err := ReadGraph([]byte("x\n"), false)
	require.ErrorIs(t, err, ErrHeader)

	_, _, err = ReadGraph([]byte("3 2 1\n0 1\n"), false)
	require.ErrorIs(t, err, ErrFormat)

	_, _, err = ReadGraph([]byte("2 1 1\n0 5\n"), false)
	require.ErrorIs(t, err, ErrInvalidVertex)

	_, _, err = ReadGraph([]byte("3 2 1\n0 1\n0 1\n"), false)
	require.ErrorIs(t, err, ErrDuplicateEdge)
}
