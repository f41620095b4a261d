package connectivity

import (
	"github.com/nats-io/nats.go"
)

// NATSSource reports the state of a NATS connection: the first connect and
// every reconnect read as online, disconnects and closes as offline. It takes
// over the connection's connect, disconnect, reconnect and closed handlers.
type NATSSource struct {
	nc *nats.Conn
	sw *Switch
}

func NewNATSSource(nc *nats.Conn) *NATSSource {
	s := &NATSSource{nc: nc, sw: NewSwitch(nc.IsConnected())}
	// With RetryOnFailedConnect the first successful connect only fires the
	// connected handler.
	nc.SetConnectedHandler(s.up)
	nc.SetReconnectHandler(s.up)
	nc.SetDisconnectErrHandler(func(nc *nats.Conn, _ error) { s.down(nc) })
	nc.SetClosedHandler(s.down)
	return s
}

func (s *NATSSource) up(*nats.Conn)   { s.sw.Set(true) }
func (s *NATSSource) down(*nats.Conn) { s.sw.Set(false) }

func (s *NATSSource) Online() bool {
	return s.nc.IsConnected()
}

func (s *NATSSource) Subscribe(onOnline, onOffline func()) func() {
	return s.sw.Subscribe(onOnline, onOffline)
}
