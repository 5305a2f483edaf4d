package playback

import "time"

// monitorLoop polls the backend at the configured interval and advances the
// queue when the current track finishes. It exits when Shutdown closes the
// stop channel.
func (p *Player) monitorLoop() {
	defer close(p.monitorDone)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopMonitor:
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

// tick runs one monitor iteration. A panic in a backend call is contained so
// a single bad poll cannot kill the loop.
func (p *Player) tick() {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("monitor iteration panicked", "panic", r)
		}
	}()

	p.mu.Lock()
	if p.state != StatePlaying {
		p.mu.Unlock()
		return
	}
	gen := p.generation
	p.mu.Unlock()

	if p.backend.IsBusy() {
		return
	}

	// The track finished. Advance through the queue, skipping entries the
	// backend rejects, until one plays or the queue runs out. Each committed
	// transition re-checks the generation first: any caller command that
	// landed since the poll wins and the pending advance is discarded.
	for {
		p.mu.Lock()
		if p.state != StatePlaying || p.generation != gen {
			p.mu.Unlock()
			return
		}

		next, ok := p.q.advanceNext()
		if !ok {
			p.state = StateStopped
			p.current = nil
			p.generation++
			p.mu.Unlock()
			p.logger.Info("queue finished")
			return
		}

		current := next
		p.current = &current
		p.generation++
		gen = p.generation
		p.mu.Unlock()

		if err := p.backend.Play(next.Path); err != nil {
			p.logger.Warn("skipping unplayable track", "title", next.Title, "error", err)
			continue
		}
		p.logger.Info("advanced to next track", "title", next.Title, "artist", next.DisplayArtist())
		return
	}
}
