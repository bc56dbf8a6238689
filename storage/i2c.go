package storage

import (
	"time"

	"github.com/gpcc-go/gpcc/osal"
)

// I2CMaster is a synchronous I2C bus master driver interface, adapted from
// GPCC's II2C_Master. LockBus must be held by a caller issuing more than one
// transfer that needs to execute as an atomic sequence against other bus
// users.
type I2CMaster interface {
	// LockBus locks the bus mutex for the duration of a multi-transfer
	// sequence. Callers must Unlock the returned mutex when done.
	LockBus() *osal.Mutex
	// WriteSync writes data to the device at address, blocking until the
	// transfer completes or deadline elapses. It returns false on timeout.
	WriteSync(address uint8, data []byte, deadline time.Time) bool
	// ReadSync reads len(buf) bytes from the device at address into buf,
	// blocking until the transfer completes or deadline elapses. It returns
	// false on timeout.
	ReadSync(address uint8, buf []byte, deadline time.Time) bool
}

// MemI2CMaster is a fake I2CMaster backed by per-address MemStorage
// instances, for tests that exercise a driver written against I2CMaster
// without real hardware.
type MemI2CMaster struct {
	bus     osal.Mutex
	devices map[uint8]*MemStorage
}

// NewMemI2CMaster returns a MemI2CMaster with the given simulated devices.
func NewMemI2CMaster(devices map[uint8]*MemStorage) *MemI2CMaster {
	return &MemI2CMaster{devices: devices}
}

func (m *MemI2CMaster) LockBus() *osal.Mutex {
	m.bus.Lock()
	return &m.bus
}

func (m *MemI2CMaster) WriteSync(address uint8, data []byte, deadline time.Time) bool {
	dev, ok := m.devices[address]
	if !ok {
		return false
	}
	return dev.Write(0, data) == nil
}

func (m *MemI2CMaster) ReadSync(address uint8, buf []byte, deadline time.Time) bool {
	dev, ok := m.devices[address]
	if !ok {
		return false
	}
	return dev.Read(0, len(buf), buf) == nil
}
