package keygen

import "github.com/matzehuels/hyperkey/pkg/hypergraph"

// Mode is a block cipher mode of operation.
type Mode string

const (
	ModeECB Mode = "ECB"
	ModeCBC Mode = "CBC"
	ModeCFB Mode = "CFB"
	ModeOFB Mode = "OFB"
	ModeCTR Mode = "CTR"
)

// Direction selects encryption or decryption.
type Direction int

const (
	Encrypt Direction = iota
	Decrypt
)

func (d Direction) String() string {
	if d == Decrypt {
		return "decrypt"
	}
	return "encrypt"
}

// Transformer is a block cipher keyed by a generated hypergraph. This
// package only produces the key; ciphers live elsewhere.
//
// Transform processes buf in place. iv is ignored by modes without one.
type Transformer interface {
	Transform(key *hypergraph.Hypergraph, blockSize int, mode Mode, dir Direction, iv, buf []byte) error
}

// TransformerFunc adapts a function to the Transformer interface.
type TransformerFunc func(key *hypergraph.Hypergraph, blockSize int, mode Mode, dir Direction, iv, buf []byte) error

// Transform calls f.
func (f TransformerFunc) Transform(key *hypergraph.Hypergraph, blockSize int, mode Mode, dir Direction, iv, buf []byte) error {
	return f(key, blockSize, mode, dir, iv, buf)
}
