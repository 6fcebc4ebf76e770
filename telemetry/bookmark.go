package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/hexaco/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstDelivery     BookmarkType = "first_delivery"
	BookmarkTrailBreakthrough BookmarkType = "trail_breakthrough"
	BookmarkColonyStall       BookmarkType = "colony_stall"
	BookmarkSourceRelocated   BookmarkType = "source_relocated"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the colony's history.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	delivered   bool // a delivery has been seen
	stallCount  int  // consecutive windows without deliveries
	stallRaised bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkFirstDelivery(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkTrailBreakthrough(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkColonyStall(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if stats.Relocations > 0 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkSourceRelocated,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d food source(s) emptied and relocated", stats.Relocations),
		})
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkFirstDelivery(stats WindowStats) *Bookmark {
	if bd.delivered || stats.Deliveries == 0 {
		return nil
	}
	bd.delivered = true
	return &Bookmark{
		Type:        BookmarkFirstDelivery,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("First food reached the nest: %.1f in %d deliveries", stats.Returned, stats.Deliveries),
	}
}

// checkTrailBreakthrough fires when the food returned in a window is well
// above the rolling average.
func (bd *BookmarkDetector) checkTrailBreakthrough(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.Returned
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	mult := bd.cfg.TrailBreakthrough.Multiplier
	if stats.Returned > avg*mult && stats.Returned >= bd.cfg.TrailBreakthrough.MinReturned {
		return &Bookmark{
			Type:        BookmarkTrailBreakthrough,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Returned %.1f is %.1fx average (%.1f)", stats.Returned, stats.Returned/avg, avg),
		}
	}
	return nil
}

// checkColonyStall fires once when no food has reached the nest for the
// configured number of windows. A delivery re-arms it.
func (bd *BookmarkDetector) checkColonyStall(stats WindowStats) *Bookmark {
	if stats.Deliveries > 0 {
		bd.stallCount = 0
		bd.stallRaised = false
		return nil
	}
	bd.stallCount++
	if bd.stallRaised || bd.cfg.ColonyStall.Windows <= 0 || bd.stallCount < bd.cfg.ColonyStall.Windows {
		return nil
	}
	bd.stallRaised = true
	return &Bookmark{
		Type:        BookmarkColonyStall,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("No deliveries for %d windows (%d carrying %.1f)", bd.stallCount, stats.Returning, stats.Carried),
	}
}
