package flash

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/chazu/mcurt/vm"
	"github.com/fxamacker/cbor/v2"
	"github.com/sigurn/crc16"
)

var cborEncMode cbor.EncMode

var crcTable = crc16.MakeTable(crc16.CRC16_XMODEM)

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("flash: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// named is implemented by methods that can be written to an image, such
// as *vm.NamedMethod.
type named interface {
	Name() string
}

// Record converts a descriptor to its flash form. Every non-empty virtual
// table entry must carry a name.
func Record(c *vm.Class) (ClassRecord, error) {
	r := ClassRecord{
		Name:       c.Name,
		Size:       c.Size,
		StartIndex: c.StartIndex,
		ArrayType:  c.ArrayType,
		Props: PropsRecord{
			Offset:       c.Props.Offset,
			Unboxed:      c.Props.Unboxed,
			Names:        c.Props.Names,
			UnboxedTypes: c.Props.UnboxedTypes,
		},
	}
	if c.Superclass != nil {
		r.Super = c.Superclass.Name
	}
	for _, m := range c.Methods {
		r.Methods = append(r.Methods, MethodRecord{ID: m.ID, Signature: m.Signature, Slot: m.Slot})
	}
	for slot, m := range c.VTable {
		if m == nil {
			r.VTable = append(r.VTable, "")
			continue
		}
		n, ok := m.(named)
		if !ok {
			return r, fmt.Errorf("flash: %s: vtable slot %d has no symbol name", c.Name, slot)
		}
		r.VTable = append(r.VTable, n.Name())
	}
	return r, nil
}

// Encode writes an image holding classes, in order.
func Encode(classes []*vm.Class) ([]byte, error) {
	var img Image
	for _, c := range classes {
		r, err := Record(c)
		if err != nil {
			return nil, err
		}
		img.Classes = append(img.Classes, r)
	}
	return Marshal(&img)
}

// Marshal frames an image payload.
func Marshal(img *Image) ([]byte, error) {
	payload, err := cborEncMode.Marshal(img)
	if err != nil {
		return nil, fmt.Errorf("flash: marshal image: %w", err)
	}
	var buf bytes.Buffer
	buf.Grow(len(Magic) + 1 + len(payload) + 2)
	buf.WriteString(Magic)
	buf.WriteByte(Version)
	buf.Write(payload)
	buf.Write(binary.BigEndian.AppendUint16(nil, crc16.Checksum(payload, crcTable)))
	return buf.Bytes(), nil
}

// Unmarshal checks the framing of data and decodes its payload.
func Unmarshal(data []byte) (*Image, error) {
	if len(data) < len(Magic)+1+2 || string(data[:len(Magic)]) != Magic {
		return nil, fmt.Errorf("flash: not a class table image")
	}
	if v := data[len(Magic)]; v != Version {
		return nil, fmt.Errorf("flash: unsupported image version %d", v)
	}
	payload := data[len(Magic)+1 : len(data)-2]
	want := binary.BigEndian.Uint16(data[len(data)-2:])
	if got := crc16.Checksum(payload, crcTable); got != want {
		return nil, fmt.Errorf("flash: checksum mismatch: stored %04x, computed %04x", want, got)
	}
	var img Image
	if err := cbor.Unmarshal(payload, &img); err != nil {
		return nil, fmt.Errorf("flash: unmarshal image: %w", err)
	}
	return &img, nil
}
