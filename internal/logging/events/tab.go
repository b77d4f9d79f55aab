package events

import "github.com/meshdeck/meshdeck/internal/logging"

type TabTracer struct{}

var Tab = TabTracer{}

func (TabTracer) Create(windowID, kind, title string) {
	logging.Trace("tab.create", map[string]interface{}{"window": windowID, "kind": kind, "title": title})
}

func (TabTracer) Created(windowID, tabID string) {
	logging.Trace("tab.created", map[string]interface{}{"window": windowID, "tab": tabID})
}

func (TabTracer) Activate(windowID, tabID string) {
	logging.Trace("tab.activate", map[string]interface{}{"window": windowID, "tab": tabID})
}

func (TabTracer) ActivateRollback(windowID, tabID string) {
	logging.Trace("tab.activate.rollback", map[string]interface{}{"window": windowID, "tab": tabID})
}

func (TabTracer) Close(windowID, tabID string) {
	logging.Trace("tab.close", map[string]interface{}{"window": windowID, "tab": tabID})
}

func (TabTracer) Detach(sourceWindowID, tabID string) {
	logging.Trace("tab.detach", map[string]interface{}{"window": sourceWindowID, "tab": tabID})
}

func (TabTracer) Error(op string, err error) {
	if err == nil {
		return
	}
	logging.Trace("tab.error", map[string]interface{}{"op": op, "error": err.Error()})
}
