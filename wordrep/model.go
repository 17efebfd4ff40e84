package wordrep

import (
	"fmt"
	"math"
	"os"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"
)

// Word representation model files are protobuf wire format with the
// following schema:
//
//	message WordModel {
//	    uint32 dimension = 1;
//	    repeated Entry entries = 2;
//	}
//	message Entry {
//	    string token = 1;
//	    bytes vector = 2; // len = 4*dimension, little-endian float32
//	}
const (
	fieldDimension = protowire.Number(1)
	fieldEntry     = protowire.Number(2)

	entryToken  = protowire.Number(1)
	entryVector = protowire.Number(2)
)

// Load reads a word representation model file into a Static source.
func Load(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	src, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parsing model file %s: %w", path, err)
	}
	return src, nil
}

// Unmarshal parses word representation model bytes into a Static source.
func Unmarshal(data []byte) (*Static, error) {
	dim := 0
	vectors := make(map[string][]float32)

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]

		switch {
		case num == fieldDimension && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			dim = int(v)
			data = data[n:]

		case num == fieldEntry && typ == protowire.BytesType:
			msg, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			token, vec, err := parseEntry(msg)
			if err != nil {
				return nil, err
			}
			vectors[token] = vec
			data = data[n:]

		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}

	if dim == 0 {
		return nil, fmt.Errorf("model has no dimension field")
	}
	return NewStatic(dim, vectors)
}

func parseEntry(msg []byte) (string, []float32, error) {
	var token string
	var vec []float32

	for len(msg) > 0 {
		num, typ, n := protowire.ConsumeTag(msg)
		if n < 0 {
			return "", nil, protowire.ParseError(n)
		}
		msg = msg[n:]

		switch {
		case num == entryToken && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(msg)
			if n < 0 {
				return "", nil, protowire.ParseError(n)
			}
			token = s
			msg = msg[n:]

		case num == entryVector && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(msg)
			if n < 0 {
				return "", nil, protowire.ParseError(n)
			}
			if len(raw)%4 != 0 {
				return "", nil, fmt.Errorf("entry vector has %d bytes, not a multiple of 4", len(raw))
			}
			vec = make([]float32, 0, len(raw)/4)
			for len(raw) > 0 {
				bits, n := protowire.ConsumeFixed32(raw)
				if n < 0 {
					return "", nil, protowire.ParseError(n)
				}
				vec = append(vec, math.Float32frombits(bits))
				raw = raw[n:]
			}
			msg = msg[n:]

		default:
			n := protowire.ConsumeFieldValue(num, typ, msg)
			if n < 0 {
				return "", nil, protowire.ParseError(n)
			}
			msg = msg[n:]
		}
	}

	if token == "" {
		return "", nil, fmt.Errorf("entry has no token")
	}
	return token, vec, nil
}

// Marshal encodes a word vector table into model file bytes. Entries are
// written in sorted token order so output is reproducible.
func Marshal(dim int, vectors map[string][]float32) ([]byte, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("non-positive dimension %d", dim)
	}

	tokens := make([]string, 0, len(vectors))
	for tok := range vectors {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)

	var out []byte
	out = protowire.AppendTag(out, fieldDimension, protowire.VarintType)
	out = protowire.AppendVarint(out, uint64(dim))

	for _, tok := range tokens {
		vec := vectors[tok]
		if len(vec) != dim {
			return nil, fmt.Errorf("vector for %q has %d values, want %d", tok, len(vec), dim)
		}

		var entry []byte
		entry = protowire.AppendTag(entry, entryToken, protowire.BytesType)
		entry = protowire.AppendString(entry, tok)

		raw := make([]byte, 0, 4*dim)
		for _, f := range vec {
			raw = protowire.AppendFixed32(raw, math.Float32bits(f))
		}
		entry = protowire.AppendTag(entry, entryVector, protowire.BytesType)
		entry = protowire.AppendBytes(entry, raw)

		out = protowire.AppendTag(out, fieldEntry, protowire.BytesType)
		out = protowire.AppendBytes(out, entry)
	}

	return out, nil
}

// Save writes a word vector table as a model file readable by Load.
func Save(path string, dim int, vectors map[string][]float32) error {
	data, err := Marshal(dim, vectors)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing model file: %w", err)
	}
	return nil
}
