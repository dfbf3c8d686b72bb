package driver

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const xmlIndent = "  "

// XML stores values as indented XML. A string or []byte is taken to be an
// XML document and is re-indented, other values are marshaled with
// encoding/xml.
type XML struct{}

var _ Driver = XML{}

func (XML) Name() string {
	return "xml"
}

func (XML) Extension() string {
	return "xml"
}

func (d XML) Serialize(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return d.canonical([]byte(t))
	case []byte:
		return d.canonical(t)
	}
	if err := checkValue(v, true); err != nil {
		return "", newSerializationError(d.Name(), v, err)
	}
	b, err := xml.MarshalIndent(v, "", xmlIndent)
	if err != nil {
		return "", newSerializationError(d.Name(), v, err)
	}
	return string(b) + "\n", nil
}

func (d XML) Match(expected string, actual any) error {
	return matchSerialized(d, expected, actual)
}

// canonical re-indents an XML document with a single root element. Raw
// tokens are used so that namespace prefixes are written back exactly as
// they were read.
func (d XML) canonical(doc []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	var out bytes.Buffer
	enc := xml.NewEncoder(&out)
	enc.Indent("", xmlIndent)

	var open []string // names of unclosed elements
	elements := 0
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", newSerializationError(d.Name(), doc, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			start := rawStart(t)
			if len(open) == 0 && elements > 0 {
				return "", newSerializationError(d.Name(), doc,
					errors.Errorf("second root element <%s>", start.Name.Local))
			}
			open = append(open, start.Name.Local)
			elements++
			tok = start
		case xml.EndElement:
			end := xml.EndElement{Name: rawName(t.Name)}
			if len(open) == 0 || open[len(open)-1] != end.Name.Local {
				return "", newSerializationError(d.Name(), doc,
					errors.Errorf("unexpected end element </%s>", end.Name.Local))
			}
			open = open[:len(open)-1]
			tok = end
		case xml.CharData:
			// Whitespace-only text is indentation. Other text is kept
			// verbatim, its surrounding whitespace can be significant.
			if strings.TrimSpace(string(t)) == "" {
				continue
			}
			if len(open) == 0 {
				return "", newSerializationError(d.Name(), doc,
					errors.New("text outside the root element"))
			}
			tok = t.Copy()
		case xml.ProcInst:
			tok = xml.ProcInst{Target: t.Target, Inst: bytes.TrimSpace(t.Inst)}
		default:
			tok = xml.CopyToken(t)
		}
		if err := enc.EncodeToken(tok); err != nil {
			return "", newSerializationError(d.Name(), doc, err)
		}
	}
	if len(open) != 0 {
		return "", newSerializationError(d.Name(), doc,
			errors.Errorf("unclosed element <%s>", open[len(open)-1]))
	}
	if elements == 0 {
		return "", newSerializationError(d.Name(), doc, errors.New("no root element"))
	}
	if err := enc.Flush(); err != nil {
		return "", newSerializationError(d.Name(), doc, err)
	}
	return out.String() + "\n", nil
}

// rawName folds a namespace prefix into the local name, which makes the
// encoder write it verbatim instead of generating its own xmlns attributes.
func rawName(n xml.Name) xml.Name {
	if n.Space == "" {
		return n
	}
	return xml.Name{Local: n.Space + ":" + n.Local}
}

func rawStart(t xml.StartElement) xml.StartElement {
	start := xml.StartElement{Name: rawName(t.Name)}
	for _, a := range t.Attr {
		start.Attr = append(start.Attr, xml.Attr{Name: rawName(a.Name), Value: a.Value})
	}
	return start
}
