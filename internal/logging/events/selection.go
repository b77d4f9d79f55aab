package events

import "github.com/meshdeck/meshdeck/internal/logging"

type SelectionTracer struct{}

var Selection = SelectionTracer{}

func (SelectionTracer) Changed(gridID, channelID, processID string) {
	logging.Trace("selection.changed", map[string]interface{}{
		"grid":    gridID,
		"channel": channelID,
		"process": processID,
	})
}

func (SelectionTracer) BareGrid(gridID string) {
	logging.Trace("selection.bare-grid", map[string]interface{}{"grid": gridID})
}

func (SelectionTracer) Reused(tabID string) {
	logging.Trace("selection.reused", map[string]interface{}{"tab": tabID})
}

func (SelectionTracer) Opened(tabID string) {
	logging.Trace("selection.opened", map[string]interface{}{"tab": tabID})
}

func (SelectionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("selection.error", map[string]interface{}{"error": err.Error()})
}
