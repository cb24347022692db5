package main

import (
	"log"
	"sync"
	"time"
)

// CachedItem is anything that can be lazily loaded and unloaded.
type CachedItem interface {
	// Load loads the item and prepares it for use.
	Load() error
	// Unload releases the resources of the item. To use it again,
	// the caller must call Load.
	Unload()
}

// keepPages is how far, in pages, a loaded page may sit from the last
// requested one before it is released. Five pages stay warm around
// the user.
const keepPages = 2

// pageRequest is a request to the page fetcher for a page.
type pageRequest struct {
	// page is the page number to load.
	page int
	// done is an optional channel to notify after load. Should be buffered.
	done chan int
}

// SlideCache keeps a window of loaded items around the last accessed
// position. Items load page by page: At blocks until the page of the
// wanted item is in, while the neighbouring pages load in the
// background so that stepping through the slice rarely waits. Pages
// that fall behind the window are released. The cache cannot be
// reused after Free.
type SlideCache[E CachedItem] struct {
	name     string
	items    []E
	pageSize int
	reqC     chan pageRequest
	doneC    chan struct{}
}

// NewSlideCache returns a SlideCache over items and starts the
// goroutine that fetches and evicts pages. Caller must call Free to
// release it after use.
func NewSlideCache[E CachedItem](name string, items []E, pageSize int) *SlideCache[E] {
	if pageSize <= 0 {
		pageSize = 1
	}
	if *verbose {
		log.Printf("cache %s(%d/%d): %d pages",
			name, len(items), pageSize, intCeil(len(items), pageSize))
	}
	c := &SlideCache[E]{
		name:     name,
		items:    items,
		pageSize: pageSize,
		reqC:     make(chan pageRequest),
		doneC:    make(chan struct{}),
	}
	go c.run()
	return c
}

// At returns the ith item after its page has loaded, and a bool
// saying whether the slice contains the item. The item is returned
// even when its load failed; callers inspect the item for readiness.
func (c *SlideCache[E]) At(i int) (E, bool) {
	if i < 0 || i >= len(c.items) {
		var z E
		return z, false
	}
	done := make(chan int, 1)
	c.reqC <- pageRequest{page: i / c.pageSize, done: done}
	<-done
	return c.items[i], true
}

// Len returns the length of the slice.
func (c *SlideCache[E]) Len() int {
	return len(c.items)
}

// Free unloads every loaded item and stops the fetcher. It returns
// after the last item is released.
func (c *SlideCache[E]) Free() {
	close(c.reqC)
	<-c.doneC
}

// numPages returns the total number of pages.
func (c *SlideCache[E]) numPages() int {
	return intCeil(len(c.items), c.pageSize)
}

// run owns all page bookkeeping. A page is absent, in flight or
// loaded, never two at once, so no item sees Load and Unload
// concurrently. Eviction happens here before waiters are notified:
// once At returns, pages far from the request are already released.
func (c *SlideCache[E]) run() {
	var (
		in       = c.reqC
		ready    = make(chan int)
		loaded   = make(map[int]bool)
		inflight = make(map[int][]chan int)
		focus    = 0
		closing  = false
	)

	ensure := func(page int, done chan int) {
		switch {
		case page < 0 || page >= c.numPages() || loaded[page]:
			if done != nil {
				done <- page
			}
		case hasInflight(inflight, page):
			if done != nil {
				inflight[page] = append(inflight[page], done)
			}
		default:
			var waiters []chan int
			if done != nil {
				waiters = append(waiters, done)
			}
			inflight[page] = waiters
			go func(p int) {
				c.loadPage(p)
				ready <- p
			}(page)
		}
	}

	finish := func() {
		for page := range loaded {
			c.unloadPage(page)
		}
		close(c.doneC)
	}

	for {
		select {
		case req, ok := <-in:
			if !ok {
				closing = true
				in = nil
				if len(inflight) == 0 {
					finish()
					return
				}
				continue
			}
			if req.done != nil {
				focus = req.page
			}
			ensure(req.page, req.done)
			if req.done != nil {
				ensure(req.page-1, nil)
				ensure(req.page+1, nil)
			}
		case page := <-ready:
			waiters := inflight[page]
			delete(inflight, page)
			loaded[page] = true
			if !closing {
				for p := range loaded {
					if absInt(p-focus) > keepPages {
						c.unloadPage(p)
						delete(loaded, p)
					}
				}
			}
			for _, done := range waiters {
				done <- page
			}
			if closing && len(inflight) == 0 {
				finish()
				return
			}
		}
	}
}

// hasInflight distinguishes a page in flight with no waiters from an
// absent one; a nil waiter list is still a tracked page.
func hasInflight(inflight map[int][]chan int, page int) bool {
	_, ok := inflight[page]
	return ok
}

// loadPage loads all the items of the page in parallel.
func (c *SlideCache[E]) loadPage(page int) {
	start := time.Now()
	begin := page * c.pageSize
	end := min(len(c.items), begin+c.pageSize)

	var wg sync.WaitGroup
	wg.Add(end - begin)
	for i := begin; i < end; i++ {
		go func(j int) {
			defer wg.Done()
			if err := c.items[j].Load(); err != nil {
				log.Printf("cache %s: load item %d: %v", c.name, j, err)
			}
		}(i)
	}
	wg.Wait()

	if *verbose {
		log.Printf("cache %s(%d/%d): load page %d time %v",
			c.name, len(c.items), c.pageSize, page, time.Since(start))
	}
}

// unloadPage unloads all the items of the page.
func (c *SlideCache[E]) unloadPage(page int) {
	begin := page * c.pageSize
	end := min(len(c.items), begin+c.pageSize)
	for i := begin; i < end; i++ {
		c.items[i].Unload()
	}
	if *verbose {
		log.Printf("cache %s(%d/%d): evicted page %d",
			c.name, len(c.items), c.pageSize, page)
	}
}
