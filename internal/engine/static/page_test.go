package static

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/law-makers/pricewatch/internal/engine"
)

const doc = `<html><body>
	<h1 class="title">  Milk 2L </h1>
	<span class="price">$3.10</span>
	<span class="price">$9.99</span>
</body></html>`

func TestPage_NavigateAndRead(t *testing.T) {
	ctx := context.Background()
	p := New().Load("https://example.test/milk", doc)

	require.NoError(t, p.Navigate(ctx, "https://example.test/milk", time.Second))
	assert.Equal(t, "https://example.test/milk", p.URL())
	assert.Equal(t, 1, p.Navigations)

	text, err := p.Text(ctx, "h1.title", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "Milk 2L", text)

	text, err = p.Text(ctx, ".price", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "$3.10", text, "first match wins")

	assert.True(t, p.Present(ctx, ".price", time.Second))
	assert.False(t, p.Present(ctx, ".missing", time.Second))
	assert.NoError(t, p.WaitVisible(ctx, "h1", time.Second))

	html, err := p.HTML(ctx)
	require.NoError(t, err)
	assert.True(t, strings.Contains(html, "Milk 2L"))
}

func TestPage_MissingSelectorIsTimeout(t *testing.T) {
	ctx := context.Background()
	p := New().Load("u", doc)
	require.NoError(t, p.Navigate(ctx, "u", time.Second))

	_, err := p.Text(ctx, ".nope", time.Second)
	require.Error(t, err)
	assert.Equal(t, engine.ErrCodeTimeout, engine.CodeOf(err))
	assert.ErrorIs(t, err, engine.ErrTimeout)
}

func TestPage_UnknownURL(t *testing.T) {
	p := New()
	err := p.Navigate(context.Background(), "https://example.test/none", time.Second)
	require.Error(t, err)
	assert.Equal(t, engine.ErrCodeNavigation, engine.CodeOf(err))

	_, err = p.HTML(context.Background())
	assert.Error(t, err)
}

func TestFromReader_ServesAnyURL(t *testing.T) {
	p, err := FromReader(strings.NewReader(doc))
	require.NoError(t, err)
	require.NoError(t, p.Navigate(context.Background(), "https://anything.test/x", time.Second))
	assert.True(t, p.Present(context.Background(), "h1", time.Second))
}

func TestPage_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := New().Load("u", doc)
	assert.ErrorIs(t, p.Navigate(ctx, "u", time.Second), context.Canceled)
}
