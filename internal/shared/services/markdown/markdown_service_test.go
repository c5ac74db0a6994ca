package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTMLSanitized(t *testing.T) {
	svc := NewMarkdownService()

	out, err := svc.ToHTMLSanitized("Your **leave request** was approved")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>leave request</strong>")

	out, err = svc.ToHTMLSanitized("Click <script>alert(1)</script>[here](https://portal.example.com/leave/7)")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, `href="https://portal.example.com/leave/7"`)
	assert.Contains(t, out, "nofollow")
	assert.Contains(t, out, `target="_blank"`)
}

func TestSanitize_StripsHandlers(t *testing.T) {
	svc := NewMarkdownService()
	assert.Equal(t, "<p>hi</p>", svc.Sanitize(`<p onclick="steal()">hi</p>`))
}
