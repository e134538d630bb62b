package app

import (
	"log/slog"

	"github.com/atotto/clipboard"
	xclip "golang.design/x/clipboard"
)

// systemClipboard reads and writes text through golang.design/x/clipboard
// and falls back to atotto/clipboard where that cannot be initialized.
type systemClipboard struct {
	native bool
}

func newSystemClipboard(logger *slog.Logger) *systemClipboard {
	if err := xclip.Init(); err != nil {
		logger.Warn("native clipboard unavailable, using fallback", "err", err)
		return &systemClipboard{}
	}
	return &systemClipboard{native: true}
}

func (c *systemClipboard) ReadText() (string, error) {
	if c.native {
		return string(xclip.Read(xclip.FmtText)), nil
	}
	return clipboard.ReadAll()
}

func (c *systemClipboard) WriteText(text string) error {
	if c.native {
		xclip.Write(xclip.FmtText, []byte(text))
		return nil
	}
	return clipboard.WriteAll(text)
}
