package util_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/community-portal/pkg/util"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Spaces   everywhere  ", "spaces-everywhere"},
		{"Patch Notes: v2.1!", "patch-notes-v2-1"},
		{"ALL CAPS TITLE", "all-caps-title"},
		{"already-a-slug", "already-a-slug"},
		{"---trim---", "trim"},
		{"multi///slash&&&punct", "multi-slash-punct"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, util.Slugify(tc.in), "input %q", tc.in)
	}
}

func TestDisambiguateSlug(t *testing.T) {
	require.Equal(t, "news-post", util.DisambiguateSlug("news-post", 1))
	require.Equal(t, "news-post-2", util.DisambiguateSlug("news-post", 2))
	require.Equal(t, "news-post-3", util.DisambiguateSlug("news-post", 3))
}
