package unidiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasicHunk(t *testing.T) {
	d, err := Parse("@@ -2,3 +2,4 @@\n B\n-C\n+C1\n+C2\n D\n")
	require.NoError(t, err)
	require.Len(t, d.Hunks, 1)

	h := d.Hunks[0]
	assert.Equal(t, 2, h.OldStart)
	assert.Equal(t, 3, h.OldCount)
	assert.Equal(t, 2, h.NewStart)
	assert.Equal(t, 4, h.NewCount)
	assert.Equal(t, []Line{
		{Context, "B"},
		{Removed, "C"},
		{Added, "C1"},
		{Added, "C2"},
		{Context, "D"},
	}, h.Lines)
}

func TestParseCountDefaultsToOne(t *testing.T) {
	d, err := Parse("@@ -3 +3,2 @@\n-C\n+C1\n+C2\n")
	require.NoError(t, err)
	require.Len(t, d.Hunks, 1)
	assert.Equal(t, 1, d.Hunks[0].OldCount)
	assert.Equal(t, 2, d.Hunks[0].NewCount)
}

func TestParseSkipsFileTrailers(t *testing.T) {
	d, err := Parse("--- a/doc.md\n+++ b/doc.md\n@@ -1 +1 @@\n-old\n+new\n")
	require.NoError(t, err)
	require.Len(t, d.Hunks, 1)
	assert.Equal(t, []Line{{Removed, "old"}, {Added, "new"}}, d.Hunks[0].Lines)
}

func TestParseProseTerminatesAccumulation(t *testing.T) {
	// Generators like to explain themselves after the hunk; those lines must not leak into it.
	d, err := Parse("@@ -1 +1 @@\n-old\n+new\nThis change replaces old with new.\n+stray\n")
	require.NoError(t, err)
	require.Len(t, d.Hunks, 1)
	assert.Equal(t, []Line{{Removed, "old"}, {Added, "new"}}, d.Hunks[0].Lines)
}

func TestParseSecondHunkAfterProse(t *testing.T) {
	d, err := Parse("@@ -1 +1 @@\n-a\n+A\nsome prose\n@@ -5 +5 @@\n-b\n+B\n")
	require.NoError(t, err)
	require.Len(t, d.Hunks, 2)
	assert.Equal(t, 5, d.Hunks[1].OldStart)
	assert.Equal(t, []Line{{Removed, "b"}, {Added, "B"}}, d.Hunks[1].Lines)
}

func TestParseMalformedHeader(t *testing.T) {
	_, err := Parse("@@ this is not a header @@\n-x\n+y\n")
	require.ErrorIs(t, err, ErrMalformedHunk)
}

func TestParseNoHunksIsEmptyDiff(t *testing.T) {
	d, err := Parse("just some text\nno diff here\n")
	require.NoError(t, err)
	assert.Empty(t, d.Hunks)
}

func TestLineCounts(t *testing.T) {
	d, err := Parse("@@ -1,3 +1,2 @@\n x\n-a\n-b\n+ab\n")
	require.NoError(t, err)
	assert.Equal(t, 2, d.RemovedLines())
	assert.Equal(t, 1, d.AddedLines())
}

func TestRenderRoundTrip(t *testing.T) {
	d := Diff{Hunks: []Hunk{
		{OldStart: 3, OldCount: 1, NewStart: 3, NewCount: 2, Lines: []Line{
			{Removed, "C"},
			{Added, "C1"},
			{Added, "C2"},
		}},
		{OldStart: 9, OldCount: 2, NewStart: 10, NewCount: 2, Lines: []Line{
			{Context, "H"},
			{Removed, "I"},
			{Added, "I2"},
		}},
	}}

	text := Render(d, "", "")
	assert.Equal(t, "@@ -3 +3,2 @@\n-C\n+C1\n+C2\n@@ -9,2 +10,2 @@\n H\n-I\n+I2\n", text)

	back, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, d, back)
}

func TestRenderWithTrailers(t *testing.T) {
	d := Diff{Hunks: []Hunk{{OldStart: 1, OldCount: 1, NewStart: 1, NewCount: 1, Lines: []Line{{Removed, "a"}, {Added, "b"}}}}}
	text := Render(d, "a/doc.md", "b/doc.md")
	assert.Equal(t, "--- a/doc.md\n+++ b/doc.md\n@@ -1 +1 @@\n-a\n+b\n", text)
}
