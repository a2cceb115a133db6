package synth

import "github.com/valerio/go-wavetank/wavetank/tables"

// MaxLevel is the loudest perceptual level.
const MaxLevel = 16

// levelVolumes steps 1.5 dB per level, reaching the clean volume limit at
// MaxLevel: round(64 * 2^((level-16)/4)).
var levelVolumes = [MaxLevel + 1]uint8{0, 5, 6, 7, 8, 10, 11, 13, 16, 19, 23, 27, 32, 38, 45, 54, tables.MaxCleanVolume}

// LevelVolume maps a perceptual level 0..16 to a raw volume. Levels above
// MaxLevel are treated as MaxLevel.
func LevelVolume(level int) uint8 {
	if level <= 0 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return levelVolumes[level]
}
