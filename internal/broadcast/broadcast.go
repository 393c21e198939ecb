// Package broadcast sends the literal intention string as UDP datagrams to
// the local broadcast address at an unbounded rate. There is no framing and
// no protocol: the payload is the string, the default target is
// 255.255.255.255:11111.
package broadcast

import (
	"context"
	"fmt"
	"net"
	"time"
)

const (
	// DefaultAddr is the limited broadcast address.
	DefaultAddr = "255.255.255.255"
	// DefaultPort matches the original broadcaster.
	DefaultPort = 11111
	// DefaultReportEvery is how many sends pass between progress calls.
	DefaultReportEvery = 100000
)

// Options configures a broadcaster.
type Options struct {
	Addr        string
	Port        int
	Delay       time.Duration // per-send sleep; 0 is unbounded
	ReportEvery uint64
}

// Broadcaster owns the UDP socket.
type Broadcaster struct {
	conn net.PacketConn
	dest *net.UDPAddr
	opts Options
}

// New opens a UDP socket with SO_BROADCAST set and resolves the target.
func New(opts Options) (*Broadcaster, error) {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.ReportEvery == 0 {
		opts.ReportEvery = DefaultReportEvery
	}

	ip := net.ParseIP(opts.Addr)
	if ip == nil {
		return nil, fmt.Errorf("broadcast address %q is not an IP", opts.Addr)
	}

	lc := net.ListenConfig{Control: enableBroadcast}
	conn, err := lc.ListenPacket(context.Background(), "udp4", ":0")
	if err != nil {
		return nil, fmt.Errorf("open broadcast socket: %w", err)
	}
	return &Broadcaster{
		conn: conn,
		dest: &net.UDPAddr{IP: ip, Port: opts.Port},
		opts: opts,
	}, nil
}

// Target returns the resolved destination.
func (b *Broadcaster) Target() string {
	return b.dest.String()
}

// Run sends payload in a tight loop until ctx is canceled or a send fails.
// progress is called with the running total every ReportEvery sends,
// starting at zero as the original counter did.
func (b *Broadcaster) Run(ctx context.Context, payload []byte, progress func(sent uint64)) error {
	if progress == nil {
		progress = func(uint64) {}
	}
	var sent uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if sent%b.opts.ReportEvery == 0 {
			progress(sent)
		}
		if _, err := b.conn.WriteTo(payload, b.dest); err != nil {
			return fmt.Errorf("send broadcast message: %w", err)
		}
		sent++
		if b.opts.Delay > 0 {
			t := time.NewTimer(b.opts.Delay)
			select {
			case <-t.C:
			case <-ctx.Done():
				t.Stop()
				return nil
			}
		}
	}
}

// Close releases the socket.
func (b *Broadcaster) Close() error {
	return b.conn.Close()
}
