package review

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/mr-tron/base58/base58"
)

func putString(dst []byte, src string, offset *int) {
	putUint32(dst, uint32(len(src)), offset)
	copy(dst[*offset:], src)
	*offset += len(src)
}

// getString reads a u32 length-prefixed string, reporting false if the prefix
// or the payload overruns the buffer.
func getString(src []byte, dst *string, offset *int) bool {
	var length uint32
	if !getUint32(src, &length, offset) {
		return false
	}
	if *offset+int(length) > len(src) {
		return false
	}
	*dst = string(src[*offset : *offset+int(length)])
	*offset += int(length)
	return true
}

func putKey(dst []byte, v ed25519.PublicKey, offset *int) {
	copy(dst[*offset:], v)
	*offset += ed25519.PublicKeySize
}

func getKey(src []byte, dst *ed25519.PublicKey, offset *int) bool {
	if *offset+ed25519.PublicKeySize > len(src) {
		return false
	}
	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src[*offset:])
	*offset += ed25519.PublicKeySize
	return true
}

func putBool(dst []byte, v bool, offset *int) {
	if v {
		dst[*offset] = 1
	}
	*offset += 1
}

func getBool(src []byte, dst *bool, offset *int) bool {
	if *offset+1 > len(src) {
		return false
	}
	*dst = src[*offset] == 1
	*offset += 1
	return true
}

func putUint8(dst []byte, v uint8, offset *int) {
	dst[*offset] = v
	*offset += 1
}

func getUint8(src []byte, dst *uint8, offset *int) bool {
	if *offset+1 > len(src) {
		return false
	}
	*dst = src[*offset]
	*offset += 1
	return true
}

func putUint32(dst []byte, v uint32, offset *int) {
	binary.LittleEndian.PutUint32(dst[*offset:], v)
	*offset += 4
}

func getUint32(src []byte, dst *uint32, offset *int) bool {
	if *offset+4 > len(src) {
		return false
	}
	*dst = binary.LittleEndian.Uint32(src[*offset:])
	*offset += 4
	return true
}

func putUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += 8
}

func getUint64(src []byte, dst *uint64, offset *int) bool {
	if *offset+8 > len(src) {
		return false
	}
	*dst = binary.LittleEndian.Uint64(src[*offset:])
	*offset += 8
	return true
}

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
