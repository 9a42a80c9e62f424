package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Senior Go Engineer</h1></body></html>"))
	}))
	defer srv.Close()

	result, err := URL(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, result.HTML, "Senior Go Engineer")
	assert.Contains(t, result.ContentType, "text/html")
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not a url", nil)
	require.Error(t, err)

	var fetchErr *Error
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "invalid URL", fetchErr.Message)
}

func TestURL_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	result, err := URL(context.Background(), srv.URL, nil)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	require.True(t, errors.As(err, &fetchErr))
	assert.Contains(t, fetchErr.Message, "404")
}

func TestURL_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := URL(ctx, srv.URL, nil)
	require.Error(t, err)
}

func TestVisibleText_StripsScriptsAndBlankLines(t *testing.T) {
	html := `<html><head><script>var x = 1;</script><style>.a{}</style></head>
<body>
  <p>First line</p>

  <p>Second line</p>
</body></html>`

	text, err := VisibleText(html)
	require.NoError(t, err)
	assert.Equal(t, "First line\nSecond line", text)
	assert.NotContains(t, text, "var x")
}

func TestVisibleText_CapsLineCount(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < MaxVisibleLines+50; i++ {
		b.WriteString("<p>line</p>\n")
	}
	b.WriteString("</body></html>")

	text, err := VisibleText(b.String())
	require.NoError(t, err)
	assert.Len(t, strings.Split(text, "\n"), MaxVisibleLines)
}

func TestExtractMainText_PrefersContentSelector(t *testing.T) {
	html := `<html><body>
<nav>Home About</nav>
<main><h1>Platform Engineer</h1><p>Build pipelines.</p></main>
<footer>Copyright</footer>
</body></html>`

	text, err := ExtractMainText(html, []string{"main"})
	require.NoError(t, err)
	assert.Contains(t, text, "Platform Engineer")
	assert.Contains(t, text, "Build pipelines.")
	assert.NotContains(t, text, "Copyright")
	assert.NotContains(t, text, "Home About")
}

func TestExtractMainText_FallsBackToBody(t *testing.T) {
	html := `<html><body><p>Just text</p></body></html>`

	text, err := ExtractMainText(html, []string{".does-not-exist"})
	require.NoError(t, err)
	assert.Equal(t, "Just text", text)
}

func TestExtractMainText_RemovesNoiseSelectors(t *testing.T) {
	html := `<html><body><main><p>Role details</p><div class="apply-button">Apply now</div></main></body></html>`

	text, err := ExtractMainText(html, []string{"main"}, ".apply-button")
	require.NoError(t, err)
	assert.Contains(t, text, "Role details")
	assert.NotContains(t, text, "Apply now")
}

func TestPageTitle(t *testing.T) {
	html := `<html><head><title>  Staff Engineer at Acme  </title></head><body></body></html>`

	title, err := PageTitle(html)
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer at Acme", title)
}

func TestSelectFirstText(t *testing.T) {
	html := `<html><body><h1 class="empty"></h1><h1 class="job-title">  Backend Developer </h1></body></html>`

	text, err := SelectFirstText(html, []string{".empty", ".job-title"})
	require.NoError(t, err)
	assert.Equal(t, "Backend Developer", text)

	text, err = SelectFirstText(html, []string{".missing"})
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("short page"))
	assert.False(t, ShouldUseBrowser(strings.Repeat("x", MinContentLength)))
}
