package ss58

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// KusamaPrefix is the network prefix of the Kusama relay chain.
const KusamaPrefix uint16 = 2

const (
	checksumLen = 2
	maxPrefix   = 16383
)

var checksumPreimage = []byte("SS58PRE")

var (
	ErrInvalidPrefix   = errors.New("ss58: invalid network prefix")
	ErrInvalidAddress  = errors.New("ss58: invalid address")
	ErrInvalidChecksum = errors.New("ss58: invalid checksum")
)

// Encode renders a public key as an SS58 address under prefix.
func Encode(pub []byte, prefix uint16) (string, error) {
	if len(pub) == 0 {
		return "", fmt.Errorf("ss58: empty public key")
	}
	head, err := prefixBytes(prefix)
	if err != nil {
		return "", err
	}

	body := make([]byte, 0, len(head)+len(pub)+checksumLen)
	body = append(body, head...)
	body = append(body, pub...)
	sum := checksum(body)
	body = append(body, sum[:checksumLen]...)
	return base58.Encode(body), nil
}

// Decode parses an SS58 address and returns its public key and prefix.
func Decode(addr string) ([]byte, uint16, error) {
	raw, err := base58.Decode(addr)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) < 1+checksumLen+1 {
		return nil, 0, ErrInvalidAddress
	}

	var (
		prefix    uint16
		prefixLen int
	)
	switch first := raw[0]; {
	case first < 64:
		prefix, prefixLen = uint16(first), 1
	case first < 128:
		if len(raw) < 2+checksumLen+1 {
			return nil, 0, ErrInvalidAddress
		}
		second := raw[1]
		lower := (first << 2) | (second >> 6)
		upper := second & 0x3f
		prefix, prefixLen = uint16(lower)|uint16(upper)<<8, 2
	default:
		return nil, 0, ErrInvalidPrefix
	}

	body := raw[:len(raw)-checksumLen]
	sum := checksum(body)
	if !bytes.Equal(sum[:checksumLen], raw[len(raw)-checksumLen:]) {
		return nil, 0, ErrInvalidChecksum
	}
	return append([]byte(nil), body[prefixLen:]...), prefix, nil
}

func prefixBytes(prefix uint16) ([]byte, error) {
	switch {
	case prefix < 64:
		return []byte{byte(prefix)}, nil
	case prefix <= maxPrefix:
		first := byte((prefix&0x00fc)>>2) | 0x40
		second := byte(prefix>>8) | byte((prefix&0x0003)<<6)
		return []byte{first, second}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidPrefix, prefix)
	}
}

func checksum(body []byte) [64]byte {
	data := make([]byte, 0, len(checksumPreimage)+len(body))
	data = append(data, checksumPreimage...)
	data = append(data, body...)
	return blake2b.Sum512(data)
}
