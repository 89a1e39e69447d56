package undo

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
)

// storeMetrics are the counters and gauges of a single undo.Store.
// They live in their own metrics.Set, expose them with Set.WritePrometheus.
type storeMetrics struct {
	set *metrics.Set

	recorded  map[Kind]*metrics.Counter
	undone    *metrics.Counter
	redone    *metrics.Counter
	failures  *metrics.Counter
	conflicts *metrics.Counter
	evicted   *metrics.Counter
}

func newStoreMetrics(label string, u *Store) *storeMetrics {
	set := metrics.NewSet()
	name := func(metric, extra string) string {
		if extra != "" {
			return fmt.Sprintf(`%s{store=%q,%s}`, metric, label, extra)
		}
		return fmt.Sprintf(`%s{store=%q}`, metric, label)
	}

	m := &storeMetrics{
		set:       set,
		recorded:  make(map[Kind]*metrics.Counter, 3),
		undone:    set.NewCounter(name("ukv_undo_steps_total", "")),
		redone:    set.NewCounter(name("ukv_redo_steps_total", "")),
		failures:  set.NewCounter(name("ukv_replay_failures_total", "")),
		conflicts: set.NewCounter(name("ukv_changing_required_total", "")),
		evicted:   set.NewCounter(name("ukv_history_evicted_total", "")),
	}
	for _, k := range []Kind{KindAdd, KindPut, KindRemove} {
		m.recorded[k] = set.NewCounter(name("ukv_actions_recorded_total", fmt.Sprintf("kind=%q", k.String())))
	}

	set.NewGauge(name("ukv_undo_depth", ""), func() float64 {
		return float64(u.undoStack.Len())
	})
	set.NewGauge(name("ukv_redo_depth", ""), func() float64 {
		return float64(u.redoStack.Len())
	})
	set.NewGauge(name("ukv_pending_changes", ""), func() float64 {
		return float64(u.cache.size())
	})

	return m
}
