package loop

import (
	"testing"

	"vortex/internal/field"
)

func TestQueueSingleSlot(t *testing.T) {
	var q Queue
	if q.Fire(frameDt) {
		t.Fatal("empty queue fired")
	}

	var got []string
	first := q.RequestFrame(func(float64) { got = append(got, "first") })
	q.RequestFrame(func(float64) { got = append(got, "second") })

	q.CancelFrame(first) // stale id, the second request stays
	if !q.Pending() {
		t.Fatal("stale cancel dropped the pending frame")
	}
	if !q.Fire(frameDt) || q.Pending() {
		t.Fatal("fire did not consume the pending frame")
	}
	if len(got) != 1 || got[0] != "second" {
		t.Fatalf("ran %v, want [second]", got)
	}
}

func TestQueueCancel(t *testing.T) {
	var q Queue
	ran := false
	id := q.RequestFrame(func(float64) { ran = true })
	q.CancelFrame(id)
	if q.Fire(frameDt) || ran {
		t.Fatal("cancelled frame ran")
	}
}

func TestQueueDrivesDriver(t *testing.T) {
	q := &Queue{}
	rend := &mockRenderer{}
	cfg := field.DefaultConfig()
	cfg.ParticleCount = 20
	d, err := New(cfg, q, func(int, int, int) (Renderer, error) { return rend, nil },
		Options{Width: 800, Height: 600, Source: field.NewRand(3), Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if !q.Fire(frameDt) {
			t.Fatalf("frame %d: nothing pending", i)
		}
	}
	d.Dispose()
	if q.Pending() || q.Fire(frameDt) {
		t.Fatal("frame pending after dispose")
	}
	if rend.renders != 10 {
		t.Fatalf("renders = %d", rend.renders)
	}
}
