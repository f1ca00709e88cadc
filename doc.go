/*
Package reveal sequences a character-by-character text reveal on a single page.

A page holds a title, two subtitles, a value group and a decorative element.
The sequencer decomposes their text into per-character units, staggers them in
and out, and switches the page between two scenes. It never advances on its own
clock: every phase change is triggered by an external animation-completion
signal or by the completion of the previous phase's effects.

# Signals

  - entry-animation-finished: the page entrance is over; scene two starts.
  - cycle-animation-finished: one loop of the ambient visual ended; scene two exits and the title comes back.
  - decorative-sub-animation-finished:<name>: the decorative element finished a sub-animation.

A signal the current phase does not accept is ignored and reported with
domain.ErrUnhandledSignal. Cycle triggers are never queued.

# Usage

	page, err := htmldom.Open("index.html")
	if err != nil {
		log.Fatal(err)
	}

	eng, err := reveal.New(page)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Run(ctx)

	if err := eng.Start(ctx); err != nil {
		log.Fatal(err)
	}
	_ = eng.Signal(ctx, domain.NewSignal(domain.SignalEntryFinished))

Tests and simulations pass a clock.Virtual with WithScheduler and move time
with Advance instead of calling Run.
*/
package reveal
