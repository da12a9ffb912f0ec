package monitor

import (
	"github.com/gorilla/websocket"
	"github.com/systemsleep/sleepctl/internal/protocol"
)

// Watch dials the /ws endpoint at wsURL and feeds each received event to
// handler until stop is closed, reconnecting with exponential backoff when
// the connection drops. onState, if non-nil, is told about connection
// transitions so the caller can print status lines.
func Watch(stop <-chan struct{}, wsURL string, handler func(protocol.Event), onState func(connected bool, err error)) {
	b := newBackoff()
	for {
		select {
		case <-stop:
			return
		default:
		}

		err := dialAndRead(stop, wsURL, handler, b, onState)
		if onState != nil {
			onState(false, err)
		}

		select {
		case <-stop:
			return
		default:
		}
		if !b.Wait(stop) {
			return
		}
	}
}

func dialAndRead(stop <-chan struct{}, wsURL string, handler func(protocol.Event), b *backoff, onState func(bool, error)) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	b.Reset()
	if onState != nil {
		onState(true, nil)
	}

	// Unblock the read loop when the caller stops.
	readDone := make(chan struct{})
	defer close(readDone)
	go func() {
		select {
		case <-stop:
		case <-readDone:
		}
		conn.Close()
	}()

	for {
		var ev protocol.Event
		if err := conn.ReadJSON(&ev); err != nil {
			select {
			case <-stop:
				return nil
			default:
			}
			return err
		}
		handler(ev)
	}
}
