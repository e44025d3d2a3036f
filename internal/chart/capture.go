package chart

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/camuig/upbit-trader/internal/config"
	"github.com/camuig/upbit-trader/internal/logger"
)

// Capturer screenshots the exchange's full-chart page so the model can see
// the same candles a human trader would. Optional: when disabled the cycle
// proceeds without an image.
type Capturer struct {
	url     string
	timeout time.Duration
	logger  *logger.Logger
}

func NewCapturer(cfg *config.Config, log *logger.Logger) *Capturer {
	return &Capturer{
		url:     cfg.Chart.URL,
		timeout: cfg.ChartTimeout(),
		logger:  log,
	}
}

// Capture renders the chart page headless and returns a PNG screenshot.
func (c *Capturer) Capture(ctx context.Context) ([]byte, error) {
	browserCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, c.timeout)
	defer cancelTimeout()

	var screenshot []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(1920, 1080),
		chromedp.Navigate(c.url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		// the chart widget draws after page load
		chromedp.Sleep(10 * time.Second),
		chromedp.FullScreenshot(&screenshot, 90),
	}
	if err := chromedp.Run(timeoutCtx, tasks...); err != nil {
		return nil, fmt.Errorf("capture chart: %w", err)
	}

	c.logger.Debug("chart captured", "bytes", len(screenshot))
	return screenshot, nil
}
