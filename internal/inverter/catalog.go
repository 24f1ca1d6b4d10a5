package inverter

import (
	"fmt"
	"strings"
)

// Parameter describes one named register definition in the catalog.
type Parameter struct {
	Name        string
	Kind        Kind
	Description string
	Unit        string
	Gain        uint16
	Address     uint16
	Length      uint16
	InitialRead bool
	Persist     bool
}

func param(name string, kind Kind, desc, unit string, gain, address, length uint16, initialRead, persist bool) Parameter {
	return Parameter{
		Name:        name,
		Kind:        kind,
		Description: desc,
		Unit:        unit,
		Gain:        gain,
		Address:     address,
		Length:      length,
		InitialRead: initialRead,
		Persist:     persist,
	}
}

// SelectedFor reports whether the parameter is fetched in the given phase.
// The initial read covers only identity parameters. Steady-state polling
// covers persisted parameters plus fault-indicating ones, which are surfaced
// even when not persisted.
func (p Parameter) SelectedFor(initialRead bool) bool {
	if initialRead {
		return p.InitialRead
	}
	return p.Persist ||
		strings.HasPrefix(p.Name, "state_") ||
		strings.HasPrefix(p.Name, "alarm_") ||
		strings.HasSuffix(p.Name, "_status") ||
		strings.HasSuffix(p.Name, "_code")
}

// Block is a contiguous run of registers covering one or more parameters,
// readable in a single holding-register request.
type Block struct {
	Address    uint16
	Length     uint16
	Parameters []Parameter
}

// NewBlock validates that the parameters form a contiguous register run and
// returns the block covering them. A gap or overlap is a catalog-authoring
// error, never a runtime condition.
func NewBlock(parameters ...Parameter) (Block, error) {
	if len(parameters) == 0 {
		return Block{}, fmt.Errorf("block must contain at least one parameter")
	}

	next := parameters[0].Address
	for _, p := range parameters {
		if p.Address != next {
			return Block{}, fmt.Errorf(
				"parameter %s starts at register %d, expected %d: block is not contiguous",
				p.Name, p.Address, next)
		}
		next = p.Address + p.Length
	}

	return Block{
		Address:    parameters[0].Address,
		Length:     next - parameters[0].Address,
		Parameters: parameters,
	}, nil
}

func mustBlock(parameters ...Parameter) Block {
	b, err := NewBlock(parameters...)
	if err != nil {
		panic(err)
	}
	return b
}

// Catalog is the full ordered list of register blocks polled from a device.
// It is static data: construct once per session, never mutate.
type Catalog []Block

// ExpectedCount returns how many parameters a complete scan in the given
// phase must yield. A steady-state scan returning fewer indicates a degraded
// session.
func (c Catalog) ExpectedCount(initialRead bool) int {
	count := 0
	for _, b := range c {
		for _, p := range b.Parameters {
			if p.SelectedFor(initialRead) {
				count++
			}
		}
	}
	return count
}
