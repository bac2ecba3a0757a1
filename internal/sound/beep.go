package sound

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// BeepPlayer plays WAV cues through the system speaker.
type BeepPlayer struct {
	mu      sync.Mutex
	buffers map[Cue]*beep.Buffer
	volume  float64
	enabled bool
	ready   bool
	log     *slog.Logger
}

// NewBeepPlayer decodes <dir>/<cue>.wav for every cue. Missing or unreadable
// files only silence that cue; the speaker is initialised from the first
// decoded file. The player is unavailable when nothing could be loaded.
func NewBeepPlayer(dir string, volume float64, logger *slog.Logger) *BeepPlayer {
	if logger == nil {
		logger = slog.Default()
	}
	p := &BeepPlayer{
		buffers: make(map[Cue]*beep.Buffer),
		volume:  volume,
		enabled: true,
		log:     logger.With("component", "sound"),
	}

	var format beep.Format
	for _, cue := range Cues {
		path := filepath.Join(dir, string(cue)+".wav")
		buf, f, err := decodeFile(path)
		if err != nil {
			p.log.Debug("sound cue unavailable", "cue", cue, "error", err)
			continue
		}
		if format.SampleRate == 0 {
			format = f
			if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
				p.log.Debug("speaker init failed", "error", err)
				return p
			}
		}
		p.buffers[cue] = buf
	}
	p.ready = len(p.buffers) > 0
	return p
}

func decodeFile(path string) (*beep.Buffer, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	return buf, format, nil
}

func (p *BeepPlayer) play(cue Cue) {
	p.mu.Lock()
	buf, ok := p.buffers[cue]
	on := p.ready && p.enabled
	vol := p.volume
	p.mu.Unlock()
	if !on || !ok {
		return
	}
	speaker.Play(&effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   vol,
		Silent:   false,
	})
}

func (p *BeepPlayer) PlayClick()      { p.play(CueClick) }
func (p *BeepPlayer) PlayComplete()   { p.play(CueComplete) }
func (p *BeepPlayer) PlayReward()     { p.play(CueReward) }
func (p *BeepPlayer) PlayBreakStart() { p.play(CueBreakStart) }
func (p *BeepPlayer) PlayBreakEnd()   { p.play(CueBreakEnd) }

func (p *BeepPlayer) SetEnabled(enabled bool) {
	p.mu.Lock()
	p.enabled = enabled
	p.mu.Unlock()
}

func (p *BeepPlayer) IsAvailable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}
