package events

import "github.com/meshdeck/meshdeck/internal/logging"

type WindowTracer struct{}

var Window = WindowTracer{}

func (WindowTracer) Replaced(count int, mainID string) {
	logging.Trace("window.replaced", map[string]interface{}{"count": count, "main": mainID})
}

func (WindowTracer) Removed(windowID string) {
	logging.Trace("window.removed", map[string]interface{}{"window": windowID})
}

func (WindowTracer) Refresh(trigger string) {
	logging.Trace("window.refresh", map[string]interface{}{"trigger": trigger})
}

func (WindowTracer) RefreshSkipped(eventType string) {
	logging.Trace("window.refresh.skipped", map[string]interface{}{"eventType": eventType})
}

func (WindowTracer) RefreshError(err error) {
	if err == nil {
		return
	}
	logging.Trace("window.refresh.error", map[string]interface{}{"error": err.Error()})
}
