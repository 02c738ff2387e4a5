package trading

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	roomCodeCharset       = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	DefaultRoomCodeLength = 6
)

type RoomCodeGenerator interface {
	Generate() (string, error)
}

type RandomRoomCodes struct {
	Length int
}

func (g RandomRoomCodes) Generate() (string, error) {
	length := g.Length
	if length <= 0 {
		length = DefaultRoomCodeLength
	}
	max := big.NewInt(int64(len(roomCodeCharset)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate room code: %w", err)
		}
		code[i] = roomCodeCharset[n.Int64()]
	}
	return string(code), nil
}
