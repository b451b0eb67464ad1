package store

import (
	"github.com/bytedance/sonic"
)

// codec encodes persisted values. ConfigStd sorts map keys, so equal
// counter mappings always produce identical bytes.
var codec = sonic.ConfigStd

func encode(v any) ([]byte, error) {
	return codec.Marshal(v)
}

func decode(data []byte, v any) error {
	return codec.Unmarshal(data, v)
}
