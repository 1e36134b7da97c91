package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/law-makers/pricewatch/internal/retry"
	"github.com/law-makers/pricewatch/pkg/models"
)

// scriptedStrategy returns the queued results in order
type scriptedStrategy struct {
	results []error
	calls   int
}

func (s *scriptedStrategy) Store() models.Store { return models.StoreWoolworths }

func (s *scriptedStrategy) Extract(ctx context.Context, page Page, url string) (*models.Product, error) {
	i := s.calls
	s.calls++
	if i < len(s.results) && s.results[i] != nil {
		return nil, s.results[i]
	}
	return &models.Product{Store: models.StoreWoolworths, Name: "Item", URL: url}, nil
}

type nopPage struct{}

func (nopPage) Navigate(context.Context, string, time.Duration) error    { return nil }
func (nopPage) WaitVisible(context.Context, string, time.Duration) error { return nil }
func (nopPage) Text(context.Context, string, time.Duration) (string, error) {
	return "", nil
}
func (nopPage) Present(context.Context, string, time.Duration) bool { return false }
func (nopPage) HTML(context.Context) (string, error)                { return "<html></html>", nil }
func (nopPage) Scroll(context.Context, int) error                   { return nil }

type recordingDumper struct{ dumps int }

func (d *recordingDumper) Dump(store models.Store, url, html string) (string, error) {
	d.dumps++
	return fmt.Sprintf("/tmp/dump-%d.html", d.dumps), nil
}

func fastRetry() retry.Config {
	cfg := retry.DefaultConfig()
	cfg.InitialBackoff = time.Millisecond
	cfg.MaxBackoff = time.Millisecond
	return cfg
}

var target = models.Target{URL: "https://www.woolworths.com.au/shop/productdetails/1/x", Store: models.StoreWoolworths}

func TestAttempt_SucceedsOnThirdAttempt(t *testing.T) {
	s := &scriptedStrategy{results: []error{errors.New("first"), errors.New("second"), nil}}

	rec, err := Attempt(context.Background(), s, nopPage{}, target, fastRetry(), nil)
	require.NoError(t, err)
	assert.True(t, rec.OK())
	assert.Equal(t, 3, rec.Attempts)
	assert.Equal(t, 3, s.calls)
	assert.Equal(t, "Item", rec.Product.Name)
	assert.Empty(t, rec.Error)
}

func TestAttempt_DumpsEachAttemptInDebugMode(t *testing.T) {
	s := &scriptedStrategy{results: []error{errors.New("first"), nil}}
	dumper := &recordingDumper{}

	rec, err := Attempt(context.Background(), s, nopPage{}, target, fastRetry(), dumper)
	require.NoError(t, err)
	assert.True(t, rec.OK())
	assert.Equal(t, 2, dumper.dumps)

	dumper = &recordingDumper{}
	_, err = Attempt(context.Background(), &scriptedStrategy{results: []error{nil}}, nopPage{}, target, fastRetry(), dumper)
	require.NoError(t, err)
	assert.Equal(t, 1, dumper.dumps)
}

func TestAttempt_ExhaustedCarriesLastMessage(t *testing.T) {
	s := &scriptedStrategy{results: []error{errors.New("one"), errors.New("two"), errors.New("three")}}
	dumper := &recordingDumper{}

	rec, err := Attempt(context.Background(), s, nopPage{}, target, fastRetry(), dumper)
	require.NoError(t, err, "a failed target is data, not an error")
	assert.False(t, rec.OK())
	assert.Nil(t, rec.Product)
	assert.Equal(t, "three", rec.Error)
	assert.Equal(t, 3, rec.Attempts)
	assert.Equal(t, target.URL, rec.URL)
	assert.Equal(t, 3, dumper.dumps)
}

func TestAttempt_SessionLostStopsImmediately(t *testing.T) {
	lost := NewEngineError(ErrCodeSessionLost, "tab closed", ErrSessionLost)
	s := &scriptedStrategy{results: []error{lost, nil}}
	dumper := &recordingDumper{}

	rec, err := Attempt(context.Background(), s, nopPage{}, target, fastRetry(), dumper)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionLost)
	assert.False(t, rec.OK())
	assert.Equal(t, 1, rec.Attempts)
	assert.Equal(t, 1, s.calls)
	assert.Zero(t, dumper.dumps)
}

func TestAttempt_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &scriptedStrategy{results: []error{errors.New("slow"), nil}}
	cfg := retry.DefaultConfig()

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	rec, err := Attempt(ctx, s, nopPage{}, target, cfg, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, rec.OK())
	assert.Equal(t, "slow", rec.Error)
}

func TestIsFatal(t *testing.T) {
	assert.False(t, IsFatal(nil))
	assert.False(t, IsFatal(errors.New("x")))
	assert.False(t, IsFatal(NewEngineError(ErrCodeTimeout, "t", ErrTimeout)))
	assert.True(t, IsFatal(ErrSessionLost))
	assert.True(t, IsFatal(fmt.Errorf("wrapped: %w", ErrSessionLost)))
	assert.True(t, IsFatal(NewEngineError(ErrCodeSessionLost, "gone", nil)))
	assert.True(t, IsFatal(NewEngineError(ErrCodeBrowserLaunch, "no chrome", ErrBrowserNotFound)))
	assert.True(t, IsFatal(context.Canceled))
}

func TestEngineError_Is(t *testing.T) {
	err := NewEngineError(ErrCodeChallenge, "stuck", ErrTimeout)
	assert.ErrorIs(t, err, &EngineError{Code: ErrCodeChallenge})
	assert.ErrorIs(t, err, ErrTimeout)
	assert.NotErrorIs(t, err, ErrSessionLost)
	assert.Contains(t, err.Error(), "CHALLENGE")
}
