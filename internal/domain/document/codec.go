package document

import (
	"github.com/bytedance/sonic"
)

// codec sorts map keys so equal values always encode to equal bytes.
var codec = sonic.ConfigStd

func Encode(v any) ([]byte, error) {
	return codec.Marshal(v)
}

func Decode(data []byte, v any) error {
	return codec.Unmarshal(data, v)
}
