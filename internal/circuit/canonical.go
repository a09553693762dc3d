package circuit

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// Domain prefix for content-addressed sequence identity. The version
// suffix enables future encoding migration.
const DomainSequence = "lockworks/sequence/v1"

// MarshalCanonical produces byte-stable JSON for a named sequence:
// object keys in fixed order, strings NFC-normalized with HTML escaping
// disabled, floats rendered with the shortest round-trip form. This is
// the only serialization used for fingerprints; pretty output goes
// through encoding/json directly.
func MarshalCanonical(name string, seq *Sequence) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	buf.WriteString(`"bits":`)
	buf.WriteString(strconv.Itoa(seq.Bits))

	buf.WriteString(`,"name":`)
	if err := writeCanonicalString(&buf, name); err != nil {
		return nil, fmt.Errorf("canonical name: %w", err)
	}

	buf.WriteString(`,"ops":[`)
	for i, op := range seq.Ops {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeCanonicalOp(&buf, op)
	}
	buf.WriteByte(']')

	buf.WriteString(`,"slots":`)
	buf.WriteString(strconv.Itoa(seq.Slots))

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Fingerprint computes the content-addressed identity of a named
// sequence: SHA-256 over domain + 0x00 + canonical bytes. The null
// separator prevents domain/data boundary ambiguity.
func Fingerprint(name string, seq *Sequence) (string, error) {
	canonical, err := MarshalCanonical(name, seq)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	h.Write([]byte(DomainSequence))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}

func writeCanonicalOp(buf *bytes.Buffer, op Op) {
	buf.WriteByte('{')

	switch op.Kind {
	case KindRotateX, KindRotateZ:
		buf.WriteString(`"angle":`)
		buf.WriteString(strconv.FormatFloat(op.Angle, 'g', -1, 64))
		buf.WriteByte(',')
	case KindMeasure:
		buf.WriteString(`"bit":`)
		buf.WriteString(strconv.Itoa(op.Bit))
		buf.WriteByte(',')
	}

	buf.WriteString(`"kind":"`)
	buf.WriteString(string(op.Kind))
	buf.WriteString(`","slots":[`)
	for i, s := range op.Slots {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Itoa(s))
	}
	buf.WriteString("]}")
}

// writeCanonicalString writes an NFC-normalized JSON string without HTML
// escaping, so < > & survive byte-for-byte.
func writeCanonicalString(buf *bytes.Buffer, s string) error {
	normalized := norm.NFC.String(s)

	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return err
	}
	// Encoder appends a newline; strip it.
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
