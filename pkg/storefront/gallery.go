package storefront

import (
	"context"
	"errors"
	"sync"

	"github.com/voltcrew/voltcrewdesigns/pkg/catalog"
)

// ErrSuperseded is returned for a gallery render overtaken by a newer
// color selection of the same session. Its result must not be shown.
var ErrSuperseded = errors.New("gallery render superseded")

// GalleryOrder lists the images shown for the selected color:
// the first image of that color, then every image of every color
// in document order without repeating the first one.
func GalleryOrder(product catalog.Product, color string) []string {
	files := product.Colors.Files(color)
	if len(files) == 0 {
		return nil
	}

	first := files[0]
	order := []string{first}
	for _, c := range product.Colors.Names() {
		for _, f := range product.Colors.Files(c) {
			if c == color && f == first {
				continue
			}
			order = append(order, f)
		}
	}

	return order
}

// GalleryTracker remembers the latest gallery render per session.
// Starting a new render cancels the previous one of the same session
// and only the latest one may commit its result.
type GalleryTracker struct {
	mux     sync.Mutex
	gen     uint64
	running map[string]galleryRender
}

type galleryRender struct {
	gen    uint64
	cancel context.CancelFunc
}

// GalleryTicket identifies one render started by Begin
type GalleryTicket struct {
	session string
	gen     uint64
}

func NewGalleryTracker() *GalleryTracker {
	return &GalleryTracker{
		running: map[string]galleryRender{},
	}
}

// Begin registers a new render for session and returns its context,
// which is cancelled as soon as a newer render of the session begins.
func (t *GalleryTracker) Begin(ctx context.Context, session string) (context.Context, GalleryTicket) {
	ctx, cancel := context.WithCancel(ctx)

	t.mux.Lock()
	defer t.mux.Unlock()

	if prev, ok := t.running[session]; ok {
		prev.cancel()
	}

	t.gen++
	t.running[session] = galleryRender{gen: t.gen, cancel: cancel}

	return ctx, GalleryTicket{session: session, gen: t.gen}
}

// Commit reports whether the render of ticket is still the latest one.
// It ends the render either way.
func (t *GalleryTracker) Commit(ticket GalleryTicket) bool {
	t.mux.Lock()
	defer t.mux.Unlock()

	current, ok := t.running[ticket.session]
	if !ok || current.gen != ticket.gen {
		return false
	}

	current.cancel()
	delete(t.running, ticket.session)
	return true
}

// Running returns the number of sessions with a render in flight
func (t *GalleryTracker) Running() int {
	t.mux.Lock()
	defer t.mux.Unlock()

	return len(t.running)
}
