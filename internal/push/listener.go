package push

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-stomp/stomp/v3/frame"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/five82/blockext/internal/extension"
	"github.com/five82/blockext/internal/state"
)

const (
	// DefaultTopic is the destination extension updates are published to.
	DefaultTopic = "/topic/extensions"
	// DefaultBackoff is the fixed delay between reconnection attempts.
	DefaultBackoff = 3 * time.Second

	endpointPath     = "/ws/websocket"
	handshakeTimeout = 10 * time.Second
	stompVersion     = "1.2"
)

// Handler receives every decoded push message in arrival order.
type Handler func(extension.Message)

// Options configure a Listener.
type Options struct {
	URL     string
	Topic   string        // empty uses DefaultTopic
	Backoff time.Duration // zero uses DefaultBackoff
	Header  http.Header
	Dialer  *websocket.Dialer
	Logger  *slog.Logger

	// OnState is told about every connection transition. A non-nil error
	// accompanies the transition that ended a session.
	OnState func(conn state.ConnState, err error)
	// OnResubscribe runs after every successful subscription except the one
	// made on the very first attempt. Messages published while the listener
	// was away are lost, so callers refetch a snapshot here.
	OnResubscribe func()
}

// Listener maintains a single STOMP subscription over a WebSocket and
// reconnects forever when it drops.
type Listener struct {
	url           string
	host          string
	topic         string
	backoff       time.Duration
	header        http.Header
	dialer        *websocket.Dialer
	logger        *slog.Logger
	onState       func(state.ConnState, error)
	onResubscribe func()
}

// New validates opts and returns a Listener.
func New(opts Options) (*Listener, error) {
	u, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse push url %q: %w", opts.URL, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("push url %q: scheme must be ws or wss", opts.URL)
	}
	l := &Listener{
		url:           u.String(),
		host:          u.Hostname(),
		topic:         opts.Topic,
		backoff:       opts.Backoff,
		header:        opts.Header,
		dialer:        opts.Dialer,
		logger:        opts.Logger,
		onState:       opts.OnState,
		onResubscribe: opts.OnResubscribe,
	}
	if l.topic == "" {
		l.topic = DefaultTopic
	}
	if l.backoff <= 0 {
		l.backoff = DefaultBackoff
	}
	if l.dialer == nil {
		l.dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		}
	}
	if l.logger == nil {
		l.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	l.logger = l.logger.With("component", "push", "url", l.url)
	return l, nil
}

// URLFromAPIBase derives the WebSocket endpoint served next to the HTTP API.
func URLFromAPIBase(base *url.URL) string {
	u := *base
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = endpointPath
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// Run connects, subscribes and hands messages to handle until ctx is
// cancelled. Connection failures are logged and retried after the backoff
// with no attempt limit. Run only returns once ctx is done.
func (l *Listener) Run(ctx context.Context, handle Handler) error {
	for attempt := 1; ; attempt++ {
		l.setState(state.ConnConnecting, nil)
		err := l.session(ctx, handle, attempt)
		if ctx.Err() != nil {
			l.setState(state.ConnDisconnected, nil)
			return nil
		}
		l.logger.Warn("push connection lost",
			"error", err,
			"attempt", attempt,
			"retry_in", l.backoff,
		)
		l.setState(state.ConnDisconnected, err)

		timer := time.NewTimer(l.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func (l *Listener) session(ctx context.Context, handle Handler, attempt int) error {
	conn, resp, err := l.dialer.DialContext(ctx, l.url, l.header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	stop := context.AfterFunc(ctx, func() {
		_ = writeFrame(conn, frame.New(frame.DISCONNECT))
		_ = conn.Close()
	})
	defer stop()

	if err := writeFrame(conn, frame.New(frame.CONNECT,
		frame.AcceptVersion, stompVersion,
		frame.Host, l.host,
		frame.HeartBeat, "0,0",
	)); err != nil {
		return fmt.Errorf("send connect: %w", err)
	}

	reply, err := readFrame(conn)
	if err != nil {
		return fmt.Errorf("await connected: %w", err)
	}
	switch reply.Command {
	case frame.CONNECTED:
	case frame.ERROR:
		return fmt.Errorf("connect rejected: %s", reply.Header.Get(frame.Message))
	default:
		return fmt.Errorf("await connected: unexpected %s frame", reply.Command)
	}

	subID := "sub-" + uuid.NewString()
	if err := writeFrame(conn, frame.New(frame.SUBSCRIBE,
		frame.Id, subID,
		frame.Destination, l.topic,
		frame.Ack, "auto",
	)); err != nil {
		return fmt.Errorf("subscribe %s: %w", l.topic, err)
	}

	l.logger.Info("push subscribed", "topic", l.topic, "subscription", subID, "attempt", attempt)
	l.setState(state.ConnConnected, nil)
	if attempt > 1 && l.onResubscribe != nil {
		l.onResubscribe()
	}

	for {
		f, err := readFrame(conn)
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		switch f.Command {
		case frame.MESSAGE:
			if sub := f.Header.Get(frame.Subscription); sub != "" && sub != subID {
				l.logger.Debug("ignoring message for other subscription", "subscription", sub)
				continue
			}
			msg, err := extension.DecodeMessage(f.Body)
			if err != nil {
				l.logger.Warn("skipping undecodable push message", "error", err)
				continue
			}
			handle(msg)
		case frame.ERROR:
			return fmt.Errorf("server error: %s", f.Header.Get(frame.Message))
		case frame.RECEIPT:
		default:
			l.logger.Debug("ignoring frame", "command", f.Command)
		}
	}
}

func (l *Listener) setState(conn state.ConnState, err error) {
	if l.onState != nil {
		l.onState(conn, err)
	}
}
