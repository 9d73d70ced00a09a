package symtensor

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/latticeforge/symten/internal/block"
	"github.com/latticeforge/symten/internal/bond"
	"github.com/latticeforge/symten/internal/kernel"
	"github.com/latticeforge/symten/internal/qnum"
)

const magic uint32 = 0x55543130 // "UT10", host endianness like the rest of the format

// Save writes t to w in the binary format spec'd for SymTensor
// persistence: a bond/label/name header followed by, when the tensor
// HasElem, every block in ascending Qnum order.
func (t *SymTensor) Save(w io.Writer) error {
	e := binary.NativeEndian
	var hdr bytes.Buffer
	if err := binary.Write(&hdr, e, magic); err != nil {
		return err
	}
	if err := binary.Write(&hdr, e, uint8(t.status)); err != nil {
		return err
	}
	kind := uint8(0)
	if t.kind == block.Complex {
		kind = 1
	}
	if err := binary.Write(&hdr, e, kind); err != nil {
		return err
	}
	if err := binary.Write(&hdr, e, uint32(len(t.bonds))); err != nil {
		return err
	}
	if err := binary.Write(&hdr, e, uint32(t.rBondNum)); err != nil {
		return err
	}
	for _, b := range t.bonds {
		if err := binary.Write(&hdr, e, uint8(b.Dir)); err != nil {
			return err
		}
		if err := binary.Write(&hdr, e, uint32(len(b.States))); err != nil {
			return err
		}
		for _, st := range b.States {
			if err := writeQnum(&hdr, st.Q); err != nil {
				return err
			}
			if err := binary.Write(&hdr, e, uint32(st.Mult)); err != nil {
				return err
			}
		}
	}
	if err := binary.Write(&hdr, e, uint8(1)); err != nil {
		return err
	}
	for _, l := range t.labels {
		if err := binary.Write(&hdr, e, l); err != nil {
			return err
		}
	}
	nameBytes := []byte(t.name)
	if err := binary.Write(&hdr, e, uint32(len(nameBytes))); err != nil {
		return err
	}
	if _, err := hdr.Write(nameBytes); err != nil {
		return err
	}
	if _, err := w.Write(hdr.Bytes()); err != nil {
		return err
	}

	if t.status&HaveElem == 0 {
		return nil
	}
	for _, q := range t.Charges() {
		b := t.blocks[q]
		if err := writeQnum(w, q); err != nil {
			return err
		}
		if err := binary.Write(w, e, uint32(b.Rows)); err != nil {
			return err
		}
		if err := binary.Write(w, e, uint32(b.Cols)); err != nil {
			return err
		}
		if t.kind == block.Real {
			for r := 0; r < b.Rows; r++ {
				for c := 0; c < b.Cols; c++ {
					if err := binary.Write(w, e, b.At(r, c)); err != nil {
						return err
					}
				}
			}
		} else {
			for r := 0; r < b.Rows; r++ {
				for c := 0; c < b.Cols; c++ {
					v := b.AtComplex(r, c)
					if err := binary.Write(w, e, real(v)); err != nil {
						return err
					}
					if err := binary.Write(w, e, imag(v)); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// Load reads a SymTensor previously written by Save, allocating its
// blocks (kernel-backed by kern) and populating them when the stream
// carries HaveElem data.
func Load(r io.Reader, kern kernel.Kernel) (*SymTensor, error) {
	e := binary.NativeEndian
	var got uint32
	if err := binary.Read(r, e, &got); err != nil {
		return nil, fmt.Errorf("symtensor: load: reading magic: %w", err)
	}
	if got != magic {
		return nil, fmt.Errorf("symtensor: load: bad magic %x", got)
	}
	var statusByte, kindByte uint8
	if err := binary.Read(r, e, &statusByte); err != nil {
		return nil, err
	}
	if err := binary.Read(r, e, &kindByte); err != nil {
		return nil, err
	}
	kind := block.Real
	if kindByte == 1 {
		kind = block.Complex
	}
	var bondNum, inBondNum uint32
	if err := binary.Read(r, e, &bondNum); err != nil {
		return nil, err
	}
	if err := binary.Read(r, e, &inBondNum); err != nil {
		return nil, err
	}

	bonds := make([]bond.Bond, bondNum)
	for i := range bonds {
		var dirByte uint8
		if err := binary.Read(r, e, &dirByte); err != nil {
			return nil, err
		}
		var stateCount uint32
		if err := binary.Read(r, e, &stateCount); err != nil {
			return nil, err
		}
		states := make([]bond.State, stateCount)
		for j := range states {
			q, err := readQnum(r)
			if err != nil {
				return nil, err
			}
			var mult uint32
			if err := binary.Read(r, e, &mult); err != nil {
				return nil, err
			}
			states[j] = bond.State{Q: q, Mult: int(mult)}
		}
		bonds[i] = bond.New(bond.Direction(dirByte), states)
	}

	var labelsPresent uint8
	if err := binary.Read(r, e, &labelsPresent); err != nil {
		return nil, err
	}
	var labels []int32
	if labelsPresent != 0 {
		labels = make([]int32, bondNum)
		for i := range labels {
			if err := binary.Read(r, e, &labels[i]); err != nil {
				return nil, err
			}
		}
	}

	var nameLen uint32
	if err := binary.Read(r, e, &nameLen); err != nil {
		return nil, err
	}
	nameBytes := make([]byte, nameLen)
	if _, err := io.ReadFull(r, nameBytes); err != nil {
		return nil, err
	}

	t, err := New(kern, bonds, int(inBondNum), kind, labels, string(nameBytes))
	if err != nil {
		return nil, fmt.Errorf("symtensor: load: %w", err)
	}
	t.status = Status(statusByte)

	if t.status&HaveElem == 0 {
		return t, nil
	}
	for range t.Charges() {
		q, err := readQnum(r)
		if err != nil {
			return nil, err
		}
		var rows, cols uint32
		if err := binary.Read(r, e, &rows); err != nil {
			return nil, err
		}
		if err := binary.Read(r, e, &cols); err != nil {
			return nil, err
		}
		dst, ok := t.blocks[q]
		if !ok || dst.Rows != int(rows) || dst.Cols != int(cols) {
			return nil, fmt.Errorf("%w: load: block at charge %s has unexpected shape", ErrShapeMismatch, q)
		}
		if kind == block.Real {
			for i := 0; i < int(rows*cols); i++ {
				var v float64
				if err := binary.Read(r, e, &v); err != nil {
					return nil, err
				}
				dst.DataReal()[i] = v
			}
		} else {
			for i := 0; i < int(rows*cols); i++ {
				var re, im float64
				if err := binary.Read(r, e, &re); err != nil {
					return nil, err
				}
				if err := binary.Read(r, e, &im); err != nil {
					return nil, err
				}
				dst.DataComplex()[i] = complex(re, im)
			}
		}
	}
	return t, nil
}

func writeQnum(w io.Writer, q qnum.Qnum) error {
	e := binary.NativeEndian
	if err := binary.Write(w, e, q.U1); err != nil {
		return err
	}
	return binary.Write(w, e, q.Parity)
}

func readQnum(r io.Reader) (qnum.Qnum, error) {
	e := binary.NativeEndian
	var u1 int64
	var parity int8
	if err := binary.Read(r, e, &u1); err != nil {
		return qnum.Qnum{}, err
	}
	if err := binary.Read(r, e, &parity); err != nil {
		return qnum.Qnum{}, err
	}
	return qnum.Qnum{U1: u1, Parity: parity}, nil
}
