package main

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/bufq/bufq"
)

// field is one entry of a parsed format spec. Its read function
// consumes the field from the reader and renders it for display.
type field struct {
	name string
	read func(r bufq.ByteReader) (string, error)
}

// parseFormat turns a spec like "u16be,u8,zstr,bytes:4,bits:12,str:8"
// into a list of decodable fields. Multi-byte integer fields accept a
// be or le suffix; without one they use the configured default order.
func parseFormat(spec string, dflt binary.ByteOrder, cs *charmap.Charmap) ([]field, error) {
	var fields []field
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		f, err := parseField(tok, dflt, cs)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty format spec")
	}
	return fields, nil
}

func parseField(tok string, dflt binary.ByteOrder, cs *charmap.Charmap) (field, error) {
	name, arg, hasArg := strings.Cut(tok, ":")

	order := dflt
	switch {
	case strings.HasSuffix(name, "be"):
		order = binary.BigEndian
		name = strings.TrimSuffix(name, "be")
	case strings.HasSuffix(name, "le"):
		order = binary.LittleEndian
		name = strings.TrimSuffix(name, "le")
	}

	n := 0
	if hasArg {
		var err error
		n, err = strconv.Atoi(arg)
		if err != nil || n < 0 {
			return field{}, fmt.Errorf("invalid field length in %q", tok)
		}
	}

	switch name {
	case "u8":
		return field{tok, func(r bufq.ByteReader) (string, error) {
			v, err := r.ReadUint8()
			return formatUint(uint64(v), err)
		}}, nil
	case "i8":
		return field{tok, func(r bufq.ByteReader) (string, error) {
			v, err := r.ReadInt8()
			return formatInt(int64(v), err)
		}}, nil
	case "u16":
		return field{tok, func(r bufq.ByteReader) (string, error) {
			v, err := r.ReadUint16(order)
			return formatUint(uint64(v), err)
		}}, nil
	case "i16":
		return field{tok, func(r bufq.ByteReader) (string, error) {
			v, err := r.ReadInt16(order)
			return formatInt(int64(v), err)
		}}, nil
	case "u32":
		return field{tok, func(r bufq.ByteReader) (string, error) {
			v, err := r.ReadUint32(order)
			return formatUint(uint64(v), err)
		}}, nil
	case "i32":
		return field{tok, func(r bufq.ByteReader) (string, error) {
			v, err := r.ReadInt32(order)
			return formatInt(int64(v), err)
		}}, nil
	case "f32":
		return field{tok, func(r bufq.ByteReader) (string, error) {
			v, err := r.ReadFloat32(order)
			if err != nil {
				return "", err
			}
			return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
		}}, nil
	case "f64":
		return field{tok, func(r bufq.ByteReader) (string, error) {
			v, err := r.ReadFloat64(order)
			if err != nil {
				return "", err
			}
			return strconv.FormatFloat(v, 'g', -1, 64), nil
		}}, nil
	case "char":
		return field{tok, func(r bufq.ByteReader) (string, error) {
			v, err := r.ReadChar()
			if err != nil {
				return "", err
			}
			return strconv.QuoteRune(v), nil
		}}, nil
	case "zstr":
		return field{tok, func(r bufq.ByteReader) (string, error) {
			s, err := r.ReadZeroString()
			if err != nil {
				return "", err
			}
			return renderString(s, cs)
		}}, nil
	case "str":
		if !hasArg {
			return field{}, fmt.Errorf("str field needs a length, e.g. str:8")
		}
		return field{tok, func(r bufq.ByteReader) (string, error) {
			s, err := r.ReadString(n)
			if err != nil {
				return "", err
			}
			return renderString(s, cs)
		}}, nil
	case "bytes":
		if !hasArg {
			return field{}, fmt.Errorf("bytes field needs a length, e.g. bytes:4")
		}
		return field{tok, func(r bufq.ByteReader) (string, error) {
			b, err := r.ReadBuffer(n)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("% x", b), nil
		}}, nil
	case "bits":
		if !hasArg {
			return field{}, fmt.Errorf("bits field needs a count, e.g. bits:12")
		}
		return field{tok, func(r bufq.ByteReader) (string, error) {
			bits, err := r.ReadBits(n)
			if err != nil {
				return "", err
			}
			var sb strings.Builder
			for _, b := range bits {
				if b {
					sb.WriteByte('1')
				} else {
					sb.WriteByte('0')
				}
			}
			return sb.String(), nil
		}}, nil
	case "skip":
		if !hasArg {
			return field{}, fmt.Errorf("skip field needs a length, e.g. skip:2")
		}
		return field{tok, func(r bufq.ByteReader) (string, error) {
			if _, err := r.Skip(n); err != nil {
				return "", err
			}
			return "-", nil
		}}, nil
	default:
		return field{}, fmt.Errorf("unknown field type %q", tok)
	}
}

func formatUint(v uint64, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(v, 10), nil
}

func formatInt(v int64, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(v, 10), nil
}

// renderString maps each byte of s through the charset if one is
// configured, otherwise quotes the raw bytes as-is.
func renderString(s string, cs *charmap.Charmap) (string, error) {
	if cs == nil {
		return strconv.Quote(s), nil
	}
	decoded, err := cs.NewDecoder().String(s)
	if err != nil {
		return "", fmt.Errorf("charset decode failure: %v", err)
	}
	return strconv.Quote(decoded), nil
}
