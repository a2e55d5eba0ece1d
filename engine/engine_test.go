package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-spatial/engine/camera"
	"github.com/Carmen-Shannon/oxy-spatial/engine/game_object"
	"github.com/Carmen-Shannon/oxy-spatial/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

func newActiveScene(t *testing.T, active bool) scene.Scene {
	t.Helper()
	s := scene.NewScene("engine-test", camera.NewCamera(), scene.WithActive(active))
	s.Add(game_object.NewGameObject(game_object.WithPosition(mgl32.Vec3{0, 0, 0})))
	t.Cleanup(s.Close)
	return s
}

func TestRunCullsActiveScenesInKeyOrder(t *testing.T) {
	e := NewEngine(
		WithScene(5, newActiveScene(t, true)),
		WithScene(1, newActiveScene(t, true)),
		WithScene(3, newActiveScene(t, false)),
		WithFrameLimit(500),
	)

	keys := make(chan int, 64)
	e.SetFrameCallback(func(key int, frame scene.Frame, _ float32) {
		if len(frame.Objects) != 1 {
			t.Errorf("Expected 1 visible object in scene %d, got %d", key, len(frame.Objects))
		}
		select {
		case keys <- key:
		default:
		}
	})

	var ticks atomic.Int32
	e.SetTickRate(200)
	e.SetTickCallback(func(float32) { ticks.Add(1) })

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	first, second := <-keys, <-keys
	if first != 1 || second != 5 {
		t.Fatalf("Expected active scenes 1 then 5, got %d then %d", first, second)
	}

	deadline := time.After(5 * time.Second)
	for ticks.Load() == 0 {
		select {
		case <-deadline:
			t.Fatalf("Timed out waiting for a tick")
		case <-time.After(5 * time.Millisecond):
		}
	}

	e.Quit()
	e.Quit()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Expected Run to return after Quit")
	}
}

func TestSceneRegistry(t *testing.T) {
	e := NewEngine()
	s := newActiveScene(t, true)

	e.AddScene(2, s)
	if e.Scene(2) != s || len(e.Scenes()) != 1 {
		t.Fatalf("Expected the scene at key 2")
	}

	copied := e.Scenes()
	delete(copied, 2)
	if e.Scene(2) == nil {
		t.Fatalf("Expected Scenes to return a copy")
	}

	e.RemoveScene(2)
	if e.Scene(2) != nil {
		t.Fatalf("Expected RemoveScene to drop the scene")
	}
}

func TestFrameDuration(t *testing.T) {
	if d := frameDuration(0); d != 0 {
		t.Fatalf("Expected uncapped for 0 fps, got %v", d)
	}
	if d := frameDuration(100); d != 10*time.Millisecond {
		t.Fatalf("Expected 10ms for 100 fps, got %v", d)
	}
}
