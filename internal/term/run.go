package term

import (
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"vortex/internal/config"
	"vortex/internal/hum"
	"vortex/internal/loop"
	"vortex/internal/scene"
)

const pageStep = 200.0 // page pixels per PgUp/PgDn

// Run takes over the terminal and drives the field at s.FPS until q, Esc or
// Ctrl-C.
func Run(s config.Settings, logger *log.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("new screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()

	return run(screen, s, logger, time.Second/time.Duration(s.FPS))
}

// run owns screen from here on; the renderer finalises it on dispose.
func run(screen tcell.Screen, s config.Settings, logger *log.Logger, interval time.Duration) error {
	var queue loop.Queue
	cols, rows := screen.Size()
	d, err := loop.New(s.Field(), &queue, func(int, int, int) (loop.Renderer, error) {
		return NewRenderer(screen), nil
	}, loop.Options{Width: cols, Height: rows * CellAspect, Source: s.Source(), Logger: logger})
	if err != nil {
		screen.Fini()
		return err
	}
	defer d.Dispose()

	if s.Audio {
		hum.Attach(d, logger)
	}
	if err := d.Start(); err != nil {
		return err
	}

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	in := &input{driver: d}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case ev := <-events:
			if !in.handle(ev) {
				logger.Printf("quit after %d frames", d.Frames())
				return nil
			}
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if !queue.Fire(dt) {
				return nil
			}
		}
	}
}

// input translates terminal events into driver inputs.
type input struct {
	driver *loop.Driver
	scroll scene.PageScroll
}

// handle applies ev and reports whether the host should keep running.
func (in *input) handle(ev tcell.Event) bool {
	d := in.driver
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyPgDn:
			d.SetScroll(in.scroll.By(pageStep))
		case tcell.KeyPgUp:
			d.SetScroll(in.scroll.By(-pageStep))
		case tcell.KeyRune:
			if ev.Rune() == 'q' {
				return false
			}
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		// Aim at the centre of the cell.
		d.PointerMove(float64(x)+0.5, (float64(y)+0.5)*CellAspect)

	case *tcell.EventFocus:
		if !ev.Focused {
			d.PointerLeave()
		}

	case *tcell.EventResize:
		cols, rows := ev.Size()
		d.Resize(cols, rows*CellAspect)
	}
	return true
}
