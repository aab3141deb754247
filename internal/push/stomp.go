package push

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-stomp/stomp/v3/frame"
	"github.com/gorilla/websocket"
)

// errHeartbeat is returned by decodeFrame for a payload that only carries
// end-of-line heart-beats.
var errHeartbeat = errors.New("heart-beat")

// encodeFrame renders f, NUL terminator included, as one WebSocket payload.
func encodeFrame(f *frame.Frame) ([]byte, error) {
	var buf bytes.Buffer
	if err := frame.NewWriter(&buf).Write(f); err != nil {
		return nil, fmt.Errorf("encode %s frame: %w", f.Command, err)
	}
	return buf.Bytes(), nil
}

// decodeFrame reads the first frame of a WebSocket payload. Heart-beats in
// front of it are skipped.
func decodeFrame(data []byte) (*frame.Frame, error) {
	if len(bytes.TrimLeft(data, "\r\n")) == 0 {
		return nil, errHeartbeat
	}
	r := frame.NewReader(bytes.NewReader(data))
	for {
		f, err := r.Read()
		if err != nil {
			return nil, fmt.Errorf("decode frame: %w", err)
		}
		if f != nil {
			return f, nil
		}
	}
}

func writeFrame(conn *websocket.Conn, f *frame.Frame) error {
	data, err := encodeFrame(f)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func readFrame(conn *websocket.Conn) (*frame.Frame, error) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		f, err := decodeFrame(data)
		if errors.Is(err, errHeartbeat) {
			continue
		}
		return f, err
	}
}
