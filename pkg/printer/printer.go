package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"
)

// Kind selects the printer transport.
type Kind string

const (
	KindUSB     Kind = "usb"
	KindNetwork Kind = "network"
	KindNone    Kind = "none"
)

// Printer sends raw ESC/POS bytes to a thermal receipt printer.
type Printer interface {
	Print(ctx context.Context, data []byte) error
	IsConnected() bool
	Kind() Kind
}

// usbPrinter writes to a device file such as /dev/usb/lp0.
type usbPrinter struct {
	path string
}

// NewUSBPrinter creates a printer that writes to a USB device file.
func NewUSBPrinter(devicePath string) Printer {
	return &usbPrinter{path: devicePath}
}

func (p *usbPrinter) Print(_ context.Context, data []byte) error {
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.path, err)
	}
	return nil
}

func (p *usbPrinter) IsConnected() bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *usbPrinter) Kind() Kind { return KindUSB }

// networkPrinter dials a raw TCP port, usually 9100.
type networkPrinter struct {
	address string
	dialer  net.Dialer
}

// NewNetworkPrinter creates a printer reachable at host:port.
func NewNetworkPrinter(address string) Printer {
	return &networkPrinter{
		address: address,
		dialer:  net.Dialer{Timeout: 5 * time.Second},
	}
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(10 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) IsConnected() bool {
	conn, err := net.DialTimeout("tcp", p.address, 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *networkPrinter) Kind() Kind { return KindNetwork }

// nullPrinter discards output; used when no printer is attached.
type nullPrinter struct{}

// NewNullPrinter creates a no-op printer.
func NewNullPrinter() Printer {
	return nullPrinter{}
}

func (nullPrinter) Print(context.Context, []byte) error { return nil }
func (nullPrinter) IsConnected() bool                   { return false }
func (nullPrinter) Kind() Kind                          { return KindNone }

// New creates the printer named by kind ("usb", "network" or "none").
func New(kind, usbPath, address string) (Printer, error) {
	switch Kind(kind) {
	case KindUSB:
		if usbPath == "" {
			return nil, fmt.Errorf("printer: USB path is required for usb printers")
		}
		return NewUSBPrinter(usbPath), nil
	case KindNetwork:
		if address == "" {
			return nil, fmt.Errorf("printer: address is required for network printers")
		}
		return NewNetworkPrinter(address), nil
	case KindNone, "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, or none)", kind)
	}
}
