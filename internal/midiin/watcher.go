package midiin

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"piano3d/internal/input"
	"piano3d/internal/logger"
)

// ExcludedPorts are virtual/system inputs that are never picked automatically.
var ExcludedPorts = []string{"Midi Through", "Through Port", "Dummy"}

const rescanInterval = time.Second

// Sink receives notes from the listener goroutine. input.NoteRouter implements it.
type Sink interface {
	NoteOn(note int) bool
	NoteOff(note int) bool
	Reset() bool
}

// Watcher keeps a connection to one MIDI input and follows hot-plug: Tick rescans the ports at
// most once per second, connects when a matching device appears and resets all keys when the
// connected device goes away.
type Watcher struct {
	log  *logger.Logger
	sink Sink
	port string

	mu        sync.Mutex
	drv       *rtmididrv.Driver
	in        drivers.In
	stop      func()
	connected string
	lastScan  time.Time
}

// Open starts the rtmidi driver. port, when non-empty, selects the input by name substring.
func Open(port string, sink Sink, log *logger.Logger) (*Watcher, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("midi: rtmididrv: %w", err)
	}
	return &Watcher{log: log, sink: sink, port: port, drv: drv}, nil
}

// Connected returns the name of the connected input, or "".
func (w *Watcher) Connected() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connected
}

// Tick is called from the frame loop.
func (w *Watcher) Tick() {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if !w.lastScan.IsZero() && now.Sub(w.lastScan) < rescanInterval {
		return
	}
	w.lastScan = now

	ins, err := w.drv.Ins()
	if err != nil {
		w.log.Once("midi:list", slog.LevelWarn, "midi: list inputs failed", "err", err)
		return
	}
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}

	if w.connected != "" {
		for _, n := range names {
			if n == w.connected {
				return
			}
		}
		w.log.Warn("midi: device disappeared", "device", w.connected)
		w.disconnect()
		return
	}

	i := input.PickPort(names, w.port, ExcludedPorts)
	if i < 0 {
		return
	}
	if err := w.listen(ins[i]); err != nil {
		w.log.Once("midi:open:"+names[i], slog.LevelError, "midi: connect failed", "device", names[i], "err", err)
	}
}

// disconnect closes the port and releases every key. Called with mu held.
func (w *Watcher) disconnect() {
	w.closePort()
	w.lastScan = time.Time{}
	w.sink.Reset()
}

func (w *Watcher) closePort() {
	if w.stop != nil {
		w.stop()
		w.stop = nil
	}
	if w.in != nil {
		_ = w.in.Close()
		w.in = nil
	}
	w.connected = ""
}

func (w *Watcher) listen(in drivers.In) error {
	name := in.String()
	if err := in.Open(); err != nil {
		return fmt.Errorf("open %q: %w", name, err)
	}
	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			if !w.sink.NoteOn(int(key)) {
				w.log.Debug("midi: note not mapped", "key", key)
			}
		case msg.GetNoteEnd(&ch, &key):
			w.sink.NoteOff(int(key))
		}
	}, midi.HandleError(func(err error) {
		w.log.Warn("midi: listener error", "device", name, "err", err)
		// the listener goroutine must not close its own port
		go func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			if w.connected == name {
				w.disconnect()
			}
		}()
	}))
	if err != nil {
		_ = in.Close()
		return fmt.Errorf("listen %q: %w", name, err)
	}
	w.in = in
	w.stop = stop
	w.connected = name
	w.log.Info("midi: connected", "device", name)
	return nil
}

// Close stops listening and shuts the driver down.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closePort()
	w.drv.Close()
}
