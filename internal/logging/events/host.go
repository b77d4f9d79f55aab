package events

import "github.com/meshdeck/meshdeck/internal/logging"

type HostTracer struct{}

var Host = HostTracer{}

func (HostTracer) Connected(socketPath string) {
	logging.Trace("host.connected", map[string]interface{}{"socket": socketPath})
}

func (HostTracer) Call(op, requestID string) {
	logging.Trace("host.call", map[string]interface{}{"op": op, "id": requestID})
}

func (HostTracer) Event(name string) {
	logging.Trace("host.event", map[string]interface{}{"event": name})
}

func (HostTracer) EventDropped(name string) {
	logging.Trace("host.event.dropped", map[string]interface{}{"event": name})
}

func (HostTracer) DecodeError(err error) {
	if err == nil {
		return
	}
	logging.Trace("host.decode.error", map[string]interface{}{"error": err.Error()})
}
