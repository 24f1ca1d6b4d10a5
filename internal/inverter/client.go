package inverter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/grid-x/modbus"
)

// Transport is a connected Modbus TCP session to one inverter.
type Transport interface {
	RegisterReader
	ReadDeviceDescription(ctx context.Context) ([]byte, error)
	Close() error
}

// Dialer establishes a fresh transport. The session calls it again after
// every connection loss.
type Dialer func(ctx context.Context) (Transport, error)

// The inverter answers on unit 1 when reached through the vendor WiFi/LTE
// dongle and on unit 0 when attached directly over LAN.
const (
	slaveIDDongle byte = 0x01
	slaveIDDirect byte = 0x00
)

// Device description is a vendor extension: MEI transport (function 0x2B)
// with a fixed three-byte request payload.
const funcCodeDeviceDescription = 0x2b

var deviceDescriptionRequest = []byte{0x0e, 0x03, 0x87}

// Client wraps a Modbus TCP handler. All requests share one socket, so reads
// are serialized with a mutex.
type Client struct {
	handler *modbus.TCPClientHandler
	client  modbus.Client
	lock    sync.Mutex
}

// Dial connects to the inverter at address (host:port). dongle selects the
// slave ID for dongle-bridged setups. timeout bounds both the TCP dial and
// each request round trip.
func Dial(address string, dongle bool, timeout time.Duration) (*Client, error) {
	handler := modbus.NewTCPClientHandler(address)
	handler.Timeout = timeout
	if dongle {
		handler.SetSlave(slaveIDDongle)
	} else {
		handler.SetSlave(slaveIDDirect)
	}

	if err := handler.Connect(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to inverter at %s: %w", address, err)
	}

	return &Client{handler: handler, client: modbus.NewClient(handler)}, nil
}

func (c *Client) ReadHoldingRegisters(ctx context.Context, address, quantity uint16) ([]byte, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.client.ReadHoldingRegisters(ctx, address, quantity)
}

// ReadDeviceDescription performs the vendor 0x2B exchange and returns the raw
// response payload for ParseDeviceDescription.
func (c *Client) ReadDeviceDescription(ctx context.Context) ([]byte, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	request := &modbus.ProtocolDataUnit{
		FunctionCode: funcCodeDeviceDescription,
		Data:         deviceDescriptionRequest,
	}

	adu, err := c.handler.Encode(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode device description request: %w", err)
	}

	response, err := c.handler.Send(ctx, adu)
	if err != nil {
		return nil, fmt.Errorf("device description request failed: %w", err)
	}

	pdu, err := c.handler.Decode(response)
	if err != nil {
		return nil, fmt.Errorf("failed to decode device description response: %w", err)
	}
	if pdu.FunctionCode != funcCodeDeviceDescription {
		return nil, fmt.Errorf("device description response has function code %#x", pdu.FunctionCode)
	}

	return pdu.Data, nil
}

func (c *Client) Close() error {
	return c.handler.Close()
}
