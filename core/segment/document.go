package segment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Block is one named block of a Document.
type Block struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Document maps every block of a configuration's order to its text. The zero
// value is an empty document with no blocks.
type Document struct {
	order []string
	text  map[string]string
}

// NewDocument returns a document with an empty entry for each name in order.
func NewDocument(order []string) Document {
	d := Document{
		order: make([]string, 0, len(order)),
		text:  make(map[string]string, len(order)),
	}
	for _, name := range order {
		if _, ok := d.text[name]; ok {
			continue
		}
		d.order = append(d.order, name)
		d.text[name] = ""
	}
	return d
}

// Get returns the text of block, or "" when block is unknown.
func (d Document) Get(block string) string {
	return d.text[block]
}

// Has reports whether block is part of the document.
func (d Document) Has(block string) bool {
	_, ok := d.text[block]
	return ok
}

// Names returns the block names in canonical order.
func (d Document) Names() []string { return slices.Clone(d.order) }

// Len returns the number of blocks.
func (d Document) Len() int { return len(d.order) }

// Blocks returns the blocks in canonical order.
func (d Document) Blocks() []Block {
	out := make([]Block, len(d.order))
	for i, name := range d.order {
		out[i] = Block{Name: name, Text: d.text[name]}
	}
	return out
}

// Map returns a copy of the document as a plain map.
func (d Document) Map() map[string]string {
	out := make(map[string]string, len(d.text))
	for k, v := range d.text {
		out[k] = v
	}
	return out
}

// append adds content to block, separated from existing text by a blank
// line. Unknown blocks are ignored.
func (d Document) append(block, content string) {
	existing, ok := d.text[block]
	if !ok {
		return
	}
	if existing == "" {
		d.text[block] = content
		return
	}
	d.text[block] = existing + "\n\n" + content
}

// MarshalJSON encodes the document as a JSON object in canonical order.
func (d Document) MarshalJSON() ([]byte, error) {
	return marshalOrdered(len(d.order), func(i int) (string, any) {
		return d.order[i], d.text[d.order[i]]
	})
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the input.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("segment: document must be a JSON object")
	}
	doc := NewDocument(nil)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var value string
		if err := dec.Decode(&value); err != nil {
			return err
		}
		if _, ok := doc.text[key]; !ok {
			doc.order = append(doc.order, key)
		}
		doc.text[key] = value
	}
	*d = doc
	return nil
}

// marshalOrdered writes n key/value pairs as a JSON object in index order.
func marshalOrdered(n int, pair func(i int) (string, any)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, value := pair(i)
		if err := encodeValue(&buf, key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeValue(&buf, value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeValue appends v to buf without HTML escaping.
func encodeValue(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}
