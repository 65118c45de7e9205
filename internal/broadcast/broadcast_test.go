package broadcast

import "testing"

func TestPublishDeliversToEverySubscriber(t *testing.T) {
	b := New(4)
	a := b.Subscribe()
	c := b.Subscribe()

	b.Publish("frame-1")

	if got := <-a; got != "frame-1" {
		t.Fatalf("subscriber a: got %q", got)
	}
	if got := <-c; got != "frame-1" {
		t.Fatalf("subscriber c: got %q", got)
	}
}

func TestCloseDrainsBufferedFramesBeforeClosing(t *testing.T) {
	b := New(4)
	sub := b.Subscribe()

	b.Publish("one")
	b.Publish("two")
	b.Close()

	var got []string
	for frame := range sub {
		got = append(got, frame)
	}
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Fatalf("expected buffered frames drained before close, got %v", got)
	}
}

func TestSubscribeAfterCloseYieldsClosedChannel(t *testing.T) {
	b := New(4)
	b.Close()

	sub := b.Subscribe()
	if _, ok := <-sub; ok {
		t.Fatalf("expected an already-closed channel for a post-close subscriber")
	}
}
