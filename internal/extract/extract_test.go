package extract_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newshound/newshound/internal/extract"
	"github.com/newshound/newshound/internal/news"
)

func storyRow(id, title, href string) string {
	return fmt.Sprintf(
		`<tr class="athing" id="%s"><td><a class="titlelink" href="%s">%s</a></td></tr>`,
		id, href, title,
	)
}

func frontPage(rows ...string) []byte {
	return []byte("<html><body><table>" + strings.Join(rows, "") + "</table></body></html>")
}

func TestStories(t *testing.T) {
	t.Parallel()

	t.Run("TwoRows", func(t *testing.T) {
		t.Parallel()
		body := frontPage(
			storyRow("1", "A", "http://a.test/"),
			storyRow("2", "B", "http://b.test/"),
		)
		stories, err := extract.Stories(body, 30)
		require.NoError(t, err)
		assert.Equal(t, []news.Story{
			{ID: "1", Name: "A", URL: "http://a.test/"},
			{ID: "2", Name: "B", URL: "http://b.test/"},
		}, stories)
	})

	t.Run("EmptyPage", func(t *testing.T) {
		t.Parallel()
		stories, err := extract.Stories([]byte("<html><body></body></html>"), 30)
		require.NoError(t, err)
		assert.Empty(t, stories)
	})

	t.Run("LimitApplied", func(t *testing.T) {
		t.Parallel()
		var rows []string
		for i := 0; i < 40; i++ {
			rows = append(rows, storyRow(fmt.Sprintf("%d", i), fmt.Sprintf("Story %d", i), "http://s.test/"))
		}
		stories, err := extract.Stories(frontPage(rows...), 30)
		require.NoError(t, err)
		require.Len(t, stories, 30)
		assert.Equal(t, "0", stories[0].ID)
		assert.Equal(t, "29", stories[29].ID)
	})

	t.Run("MalformedRowFailsThatRowOnly", func(t *testing.T) {
		t.Parallel()
		body := frontPage(
			storyRow("1", "A", "http://a.test/"),
			`<tr class="athing" id="2"><td>no anchor here</td></tr>`,
			storyRow("3", "C", "http://c.test/"),
		)
		stories, err := extract.Stories(body, 30)
		require.ErrorIs(t, err, extract.ErrNoTitleAnchor)
		assert.Equal(t, []news.Story{
			{ID: "1", Name: "A", URL: "http://a.test/"},
			{ID: "3", Name: "C", URL: "http://c.test/"},
		}, stories)
	})
}

func commentPage(comments ...string) []byte {
	var rows []string
	for _, c := range comments {
		rows = append(rows, `<tr><td><div class="comment">`+c+`</div></td></tr>`)
	}
	return []byte(`<html><body><table class="comment-tree">` + strings.Join(rows, "") + `</table></body></html>`)
}

func TestCommentLinks(t *testing.T) {
	t.Parallel()

	t.Run("NoCommentTree", func(t *testing.T) {
		t.Parallel()
		links, err := extract.CommentLinks([]byte("<html><body><p>no comments yet</p></body></html>"))
		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("ReplyAnchorExcluded", func(t *testing.T) {
		t.Parallel()
		links, err := extract.CommentLinks(commentPage(
			`<a href="http://x.test/a">x</a><a href="#">reply</a>`,
		))
		require.NoError(t, err)
		assert.Equal(t, []string{"http://x.test/a"}, links)
	})

	t.Run("DocumentOrderWithDuplicates", func(t *testing.T) {
		t.Parallel()
		links, err := extract.CommentLinks(commentPage(
			`<a href="http://x.test/1">one</a>`,
			`<a href="http://x.test/2">two</a><a href="http://x.test/1">one again</a>`,
		))
		require.NoError(t, err)
		assert.Equal(t, []string{"http://x.test/1", "http://x.test/2", "http://x.test/1"}, links)
	})
}

func TestDocumentTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "My Page", extract.DocumentTitle([]byte("<html><head><title> My Page </title></head></html>")))
	assert.Equal(t, "", extract.DocumentTitle([]byte("<html><head></head><body>untitled</body></html>")))
}
