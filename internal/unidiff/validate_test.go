package unidiff

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAccepts(t *testing.T) {
	diff := "--- a/doc.md\n+++ b/doc.md\n@@ -4,3 +4,3 @@\n context\n-The old sentence.\n+The new sentence.\n more context\n"
	v := Validate(diff, DefaultRules())
	assert.True(t, v.OK)
	assert.Equal(t, ReasonNone, v.Reason)
}

func TestValidateNoHunkHeader(t *testing.T) {
	v := Validate("-The old sentence.\n+The new sentence.\n", DefaultRules())
	assert.False(t, v.OK)
	assert.Equal(t, NoHunkHeader, v.Reason)
}

func TestValidateMultipleFileTrailers(t *testing.T) {
	diff := "+++ b/one.md\n@@ -1 +1 @@\n-a\n+b\n+++ b/two.md\n@@ -1 +1 @@\n-c\n+d\n"
	v := Validate(diff, DefaultRules())
	assert.False(t, v.OK)
	assert.Equal(t, MultipleFileTrailers, v.Reason)
}

func TestValidateMetadataRemoval(t *testing.T) {
	cases := []string{
		"title: Foo",
		"  author: someone",
		"ms.date: 01/02/2026",
		"Description: summary text",
	}
	for _, removed := range cases {
		t.Run(removed, func(t *testing.T) {
			diff := fmt.Sprintf("@@ -1,2 +1,1 @@\n-%s\n literal\n", removed)
			v := Validate(diff, DefaultRules())
			assert.False(t, v.OK)
			assert.Equal(t, MetadataRemoval, v.Reason)
		})
	}
}

func TestValidateExcessiveRemoval(t *testing.T) {
	var b strings.Builder
	b.WriteString("@@ -1,15 +1,1 @@\n")
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&b, "-line %d\n", i)
	}
	b.WriteString("+rewritten\n")

	v := Validate(b.String(), DefaultRules())
	assert.False(t, v.OK)
	assert.Equal(t, ExcessiveRemoval, v.Reason)

	// The threshold is a knob, not a constant.
	loose := DefaultRules()
	loose.MaxRemovedLines = 20
	assert.True(t, Validate(b.String(), loose).OK)
}

func TestValidateTripleDashIsNotARemoval(t *testing.T) {
	// "---" trailers must count as neither removals nor metadata hits.
	diff := "--- a/doc.md\n+++ b/doc.md\n@@ -1 +1 @@\n-x\n+y\n"
	v := Validate(diff, DefaultRules())
	assert.True(t, v.OK)
}

func TestValidateOrderOfChecks(t *testing.T) {
	// A diff that is both trailer-duplicated and metadata-removing reports the earlier check.
	diff := "+++ b/a.md\n+++ b/b.md\n@@ -1 +1 @@\n-title: Foo\n+title: Bar\n"
	v := Validate(diff, DefaultRules())
	assert.Equal(t, MultipleFileTrailers, v.Reason)
}
