package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-wavetank/wavetank/backend"
	"github.com/valerio/go-wavetank/wavetank/backend/terminal/render"
	"github.com/valerio/go-wavetank/wavetank/debug"
	"github.com/valerio/go-wavetank/wavetank/input"
	"github.com/valerio/go-wavetank/wavetank/input/action"
	"github.com/valerio/go-wavetank/wavetank/input/event"
	"github.com/valerio/go-wavetank/wavetank/synth"
	"github.com/valerio/go-wavetank/wavetank/tables"
)

const (
	minTermWidth  = 64
	minTermHeight = 24

	voiceHeight = 1 + synth.VoiceCount
	scopeHeight = 9
	volumeWidth = 16
)

var (
	borderStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	selectedStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorTeal)
	mutedStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	activeStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	scopeStyle    = tcell.StyleDefault.Foreground(tcell.ColorAqua)
)

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen    tcell.Screen
	config    backend.BackendConfig
	logBuffer *render.LogBuffer
	logLevel  *slog.LevelVar

	mu         sync.Mutex
	eventQueue []backend.InputEvent
}

// New creates a new terminal backend
func New() *Backend {
	level := &slog.LevelVar{}
	level.Set(slog.LevelInfo)
	return &Backend{logLevel: level}
}

// NewWithScreen creates a backend drawing on an existing screen, such as a
// tcell.SimulationScreen.
func NewWithScreen(screen tcell.Screen) *Backend {
	t := New()
	t.screen = screen
	return t
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	// Logs go to the log pane instead of the screen
	t.logBuffer = render.NewLogBuffer(200)
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)))

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	go t.handleSignals()

	slog.Info("Terminal backend initialized", "title", config.Title)
	return nil
}

// Update renders the snapshot and returns the key presses seen since the
// previous frame
func (t *Backend) Update(snapshot *debug.Snapshot) ([]backend.InputEvent, error) {
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	t.mu.Lock()
	events := t.eventQueue
	t.eventQueue = nil
	t.mu.Unlock()

	for _, evt := range events {
		t.HandleAction(evt.Action)
	}

	if snapshot != nil {
		t.render(snapshot)
		t.screen.Show()
	}
	return events, nil
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

// HandleAction processes the actions the backend owns
func (t *Backend) HandleAction(act action.Action) {
	switch act {
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(1)
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(-1)
	}
}

// LogLevel returns the minimum level shown in the log pane.
func (t *Backend) LogLevel() slog.Level {
	return t.logLevel.Level()
}

func (t *Backend) handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	<-signals
	t.queue(action.SynthQuit, event.Press)
}

func (t *Backend) queue(act action.Action, typ event.Type) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: typ})
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyUp:     "Up",
	tcell.KeyDown:   "Down",
	tcell.KeyLeft:   "Left",
	tcell.KeyRight:  "Right",
	tcell.KeyEscape: "Escape",
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyCtrlC {
		t.queue(action.SynthQuit, event.Press)
		return
	}

	var name string
	if ev.Key() == tcell.KeyRune {
		name = string(ev.Rune())
	} else {
		name = tcellKeyNameMap[ev.Key()]
	}

	if act, ok := input.GetDefaultMapping(name); ok {
		t.queue(act, input.EventFor(act))
	}
}

var logLevels = []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

// changeLogLevel moves the log pane filter; direction 1 shows more.
func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel.Level()
	idx := 0
	for i, l := range logLevels {
		if l == oldLevel {
			idx = i
		}
	}
	idx -= direction
	if idx < 0 || idx >= len(logLevels) {
		return
	}
	t.logLevel.Set(logLevels[idx])
	slog.Info("Log filter changed", "from", oldLevel, "to", logLevels[idx])
}

func (t *Backend) render(snap *debug.Snapshot) {
	t.screen.Clear()
	termWidth, termHeight := t.screen.Size()
	if termWidth < minTermWidth || termHeight < minTermHeight {
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
		return
	}

	t.drawText(1, 0, termWidth, " "+t.config.Title+" ", titleStyle)
	t.drawVoices(snap, 1, termWidth)

	y := voiceHeight + 2
	t.drawRule(y, termWidth, " Output ")
	t.drawScope(snap.Scope, y+1, termWidth)

	y += scopeHeight + 1
	t.drawRule(y, termWidth, fmt.Sprintf(" Logs [%s] (-/+ filter) ", t.logLevel.Level()))
	t.drawLogs(y+1, termWidth, termHeight-2)

	status := fmt.Sprintf(" %d Hz | %s | mix %s | out %3d | ticks %d | misses %d | worst %v ",
		snap.SampleRate, snap.Curve, snap.MixMode, snap.Output,
		snap.Scheduler.Ticks, snap.Scheduler.Misses, snap.Scheduler.WorstDispatch)
	t.drawText(0, termHeight-2, termWidth, status, titleStyle)
	t.drawText(0, termHeight-1, termWidth,
		" 1-8 mute | Up/Down select | Left/Right volume | w waveform | r reset | m mute all | q quit ", borderStyle)
}

func (t *Backend) drawVoices(snap *debug.Snapshot, y, width int) {
	header := fmt.Sprintf("  %-2s %-4s %6s %9s  %-*s %-8s %6s", "V", "Note", "Inc", "Hz", volumeWidth+4, "Volume", "Wave", "Phase")
	t.drawText(0, y, width, header, borderStyle)

	for i, v := range snap.Voices {
		style := mutedStyle
		if v.Active() {
			style = activeStyle
		}
		marker := "  "
		if i == snap.Selected {
			marker = "> "
			style = selectedStyle
		}
		line := fmt.Sprintf("%s%-2d %-4s 0x%04x %9.2f  %s %3d %-8s 0x%04x",
			marker, i+1, v.Note, v.Increment, v.Frequency,
			render.LevelBar(int(v.Volume), tables.MaxCleanVolume, volumeWidth), v.Volume,
			v.Waveform, v.Phase)
		t.drawText(0, y+1+i, width, line, style)
	}
}

func (t *Backend) drawScope(samples []uint8, y, width int) {
	for x, row := range render.ScopeRows(samples, width, scopeHeight) {
		if row >= 0 {
			t.screen.SetContent(x, y+row, '•', nil, scopeStyle)
		}
	}
}

func (t *Backend) drawLogs(y, width, bottom int) {
	if y >= bottom {
		return
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, entry := range t.logBuffer.GetRecent(bottom-y, t.logLevel.Level()) {
		style := infoStyle
		switch {
		case entry.Level < slog.LevelInfo:
			style = debugStyle
		case entry.Level >= slog.LevelError:
			style = errStyle
		case entry.Level >= slog.LevelWarn:
			style = warnStyle
		}
		t.drawText(0, y+i, width, render.FormatLogEntry(entry), style)
	}
}

func (t *Backend) drawRule(y, width int, title string) {
	for x := 0; x < width; x++ {
		t.screen.SetContent(x, y, '─', nil, borderStyle)
	}
	t.drawText(2, y, width, title, titleStyle)
}

// drawText writes s from x, truncating at width
func (t *Backend) drawText(x, y, width int, s string, style tcell.Style) {
	for _, ch := range s {
		if x >= width {
			return
		}
		t.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}
