package player

import (
	"math"

	"github.com/gopxl/beep/v2/speaker"
)

// silentVolume is the base-2 exponent used for a zero level; effects.Volume
// cannot express true zero.
const silentVolume = -10

// SetVolume sets the output level, clamped to [0, 1]. While muted the level
// is only remembered.
func (p *Player) SetVolume(level float64) {
	p.volumeLevel = min(max(level, 0), 1)
	p.applyVolume()
}

// Volume returns the output level.
func (p *Player) Volume() float64 { return p.volumeLevel }

// SetMuted silences or restores output without losing the level.
func (p *Player) SetMuted(muted bool) {
	p.muted = muted
	p.applyVolume()
}

// Muted reports whether output is silenced.
func (p *Player) Muted() bool { return p.muted }

// applyVolume pushes level and mute into the live volume effect, if any.
func (p *Player) applyVolume() {
	if p.volume == nil {
		return
	}
	speaker.Lock()
	p.volume.Silent = p.muted
	p.volume.Volume = p.levelToVolume(p.volumeLevel)
	speaker.Unlock()
}

// levelToVolume maps a linear level to beep's base-2 exponent:
// 1 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> silentVolume.
func (p *Player) levelToVolume(level float64) float64 {
	switch {
	case level <= 0:
		return silentVolume
	case level >= 1:
		return 0
	}
	return max(math.Log2(level), silentVolume)
}
