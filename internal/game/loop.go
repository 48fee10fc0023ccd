package game

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tickworld/server/internal/display"
)

// Run presents a frame every frameRate until the device reports quit or ctx
// is cancelled. Each frame polls input, advances the gated simulation,
// renders and shows.
func (g *Game) Run(ctx context.Context, dev display.Device, frameRate time.Duration) error {
	ticker := time.NewTicker(frameRate)
	defer ticker.Stop()

	g.log.Info("simulation started",
		zap.Duration("frame_rate", frameRate),
		zap.Int("frame_divisor", g.cfg.FrameDivisor),
	)
	g.Render()
	dev.Show()

	for {
		select {
		case <-ctx.Done():
			g.log.Info("simulation stopped", zap.Int("ticks", g.tick), zap.Error(ctx.Err()))
			return nil
		case <-ticker.C:
			dirs, quit := dev.PollInput()
			if quit {
				g.log.Info("simulation stopped", zap.Int("ticks", g.tick), zap.String("reason", "quit"))
				return nil
			}
			g.PushInput(dirs...)
			if g.Frame() {
				g.Render()
				dev.Show()
			}
		}
	}
}
