// Package flash reads and writes class table images: the class
// descriptors of a compiled program in the form they are burned to
// flash next to the code. Virtual table entries are stored as symbol
// names and resolved against the natives linked into the firmware.
//
// An image is
//
//	"MCRT" | version (1 byte) | CBOR payload | CRC-16/XMODEM of payload (2 bytes, big endian)
package flash

// Magic starts every image.
const Magic = "MCRT"

// Version is the image format version written by Encode.
const Version byte = 1

// Image is the decoded payload of a class table image.
type Image struct {
	Classes []ClassRecord `cbor:"1,keyasint"`
}

// ClassRecord is the flash form of a vm.Class.
type ClassRecord struct {
	Name       string         `cbor:"1,keyasint"`
	Size       int32          `cbor:"2,keyasint"`
	StartIndex uint32         `cbor:"3,keyasint"`
	Super      string         `cbor:"4,keyasint,omitempty"` // superclass name
	ArrayType  string         `cbor:"5,keyasint,omitempty"`
	Props      PropsRecord    `cbor:"6,keyasint"`
	Methods    []MethodRecord `cbor:"7,keyasint,omitempty"`
	VTable     []string       `cbor:"8,keyasint,omitempty"` // native symbol per slot, "" for empty
}

// PropsRecord is the flash form of vm.PropertyTable.
type PropsRecord struct {
	Offset       uint16   `cbor:"1,keyasint"`
	Unboxed      uint16   `cbor:"2,keyasint"`
	Names        []uint16 `cbor:"3,keyasint,omitempty"`
	UnboxedTypes string   `cbor:"4,keyasint,omitempty"`
}

// MethodRecord is the flash form of vm.MethodEntry.
type MethodRecord struct {
	ID        uint16 `cbor:"1,keyasint"`
	Signature string `cbor:"2,keyasint"`
	Slot      int    `cbor:"3,keyasint"`
}
