// Package printer sends ESC/POS receipts to a thermal printer over a USB
// device file or a raw TCP socket.
package printer

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"
)

// Printer accepts a finished ESC/POS byte stream
type Printer interface {
	Print(ctx context.Context, data []byte) error
	Close() error
	IsConnected() bool
}

// usbPrinter writes to a device file such as /dev/usb/lp0, opening it per job
type usbPrinter struct {
	path string
}

// NewUSBPrinter creates a printer that writes to a USB device file
func NewUSBPrinter(devicePath string) Printer {
	return &usbPrinter{path: devicePath}
}

func (p *usbPrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
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

func (p *usbPrinter) Close() error { return nil }

func (p *usbPrinter) IsConnected() bool {
	_, err := os.Stat(p.path)
	return err == nil
}

// networkPrinter dials a raw socket such as 192.168.1.100:9100 per job
type networkPrinter struct {
	address string
	timeout time.Duration
}

// NewNetworkPrinter creates a printer reached over TCP at address (host:port)
func NewNetworkPrinter(address string) Printer {
	return &networkPrinter{
		address: address,
		timeout: 5 * time.Second,
	}
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.address)
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

func (p *networkPrinter) Close() error { return nil }

func (p *networkPrinter) IsConnected() bool {
	conn, err := net.DialTimeout("tcp", p.address, 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// nullPrinter discards jobs when no hardware is configured
type nullPrinter struct{}

// NewNullPrinter creates a printer that accepts and drops every job
func NewNullPrinter() Printer {
	return nullPrinter{}
}

func (nullPrinter) Print(context.Context, []byte) error { return nil }
func (nullPrinter) Close() error                        { return nil }
func (nullPrinter) IsConnected() bool                   { return false }

// BufferPrinter keeps every job in memory. It backs receipt previews and
// tests.
type BufferPrinter struct {
	mu   sync.Mutex
	jobs [][]byte
}

func (b *BufferPrinter) Print(_ context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.jobs = append(b.jobs, bytes.Clone(data))
	return nil
}

func (b *BufferPrinter) Close() error      { return nil }
func (b *BufferPrinter) IsConnected() bool { return true }

// Jobs returns the printed jobs in order
func (b *BufferPrinter) Jobs() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([][]byte, len(b.jobs))
	copy(out, b.jobs)
	return out
}

// NewPrinterFromConfig builds the printer for printerType: usb, network or none
func NewPrinterFromConfig(printerType, usbPath, address string) (Printer, error) {
	switch printerType {
	case "usb":
		if usbPath == "" {
			return nil, fmt.Errorf("printer: PRINTER_USB_PATH is required for usb printers")
		}
		return NewUSBPrinter(usbPath), nil
	case "network":
		if address == "" {
			return nil, fmt.Errorf("printer: PRINTER_ADDRESS is required for network printers")
		}
		return NewNetworkPrinter(address), nil
	case "none", "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, or none)", printerType)
	}
}
