package index

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// The ".pb" encoding is the protobuf wire format of the following messages:
//
//	message IndexSpec {
//	  string name = 1;
//	  repeated SymbolSpec symbols = 2;
//	  repeated string exclusive = 3;
//	}
//
//	message SymbolSpec {
//	  string namespace = 1;
//	  string kind = 2;
//	  string name = 3;
//	  string pattern = 4;
//	  string origin = 5;
//	  string framework = 6;
//	  string priority = 7;
//	  bool virtual = 8;
//	  bool abstract = 9;
//	  string description = 10;
//	  repeated SymbolSpec members = 11;
//	}
//
// Unknown fields are skipped when decoding.
const (
	indexNameField      protowire.Number = 1
	indexSymbolsField   protowire.Number = 2
	indexExclusiveField protowire.Number = 3

	symbolNamespaceField   protowire.Number = 1
	symbolKindField        protowire.Number = 2
	symbolNameField        protowire.Number = 3
	symbolPatternField     protowire.Number = 4
	symbolOriginField      protowire.Number = 5
	symbolFrameworkField   protowire.Number = 6
	symbolPriorityField    protowire.Number = 7
	symbolVirtualField     protowire.Number = 8
	symbolAbstractField    protowire.Number = 9
	symbolDescriptionField protowire.Number = 10
	symbolMembersField     protowire.Number = 11
)

// maxDepth bounds the nesting of members when decoding.
const maxDepth = 64

var errTooDeep = errors.New("symbol members nested too deeply")

// Marshal encodes the spec in protobuf wire format.
func Marshal(spec *IndexSpec) []byte {
	var b []byte
	b = appendString(b, indexNameField, spec.Name)
	for _, sym := range spec.Symbols {
		b = protowire.AppendTag(b, indexSymbolsField, protowire.BytesType)
		b = protowire.AppendBytes(b, appendSymbol(nil, sym))
	}
	for _, kind := range spec.Exclusive {
		b = protowire.AppendTag(b, indexExclusiveField, protowire.BytesType)
		b = protowire.AppendString(b, kind)
	}
	return b
}

func appendSymbol(b []byte, sym *SymbolSpec) []byte {
	b = appendString(b, symbolNamespaceField, sym.Namespace)
	b = appendString(b, symbolKindField, sym.Kind)
	b = appendString(b, symbolNameField, sym.Name)
	b = appendString(b, symbolPatternField, sym.Pattern)
	b = appendString(b, symbolOriginField, sym.Origin)
	b = appendString(b, symbolFrameworkField, sym.Framework)
	b = appendString(b, symbolPriorityField, sym.Priority)
	b = appendBool(b, symbolVirtualField, sym.Virtual)
	b = appendBool(b, symbolAbstractField, sym.Abstract)
	b = appendString(b, symbolDescriptionField, sym.Description)
	for _, member := range sym.Members {
		b = protowire.AppendTag(b, symbolMembersField, protowire.BytesType)
		b = protowire.AppendBytes(b, appendSymbol(nil, member))
	}
	return b
}

// proto3 semantics: default values are not written.
func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

// Unmarshal decodes a spec from protobuf wire format.
func Unmarshal(b []byte, spec *IndexSpec) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == indexNameField && typ == protowire.BytesType:
			return consumeString(b, &spec.Name)
		case num == indexExclusiveField && typ == protowire.BytesType:
			var kind string
			n, err := consumeString(b, &kind)
			spec.Exclusive = append(spec.Exclusive, kind)
			return n, err
		case num == indexSymbolsField && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, protowire.ParseError(n)
			}
			sym := new(SymbolSpec)
			if err := unmarshalSymbol(v, sym, 1); err != nil {
				return n, err
			}
			spec.Symbols = append(spec.Symbols, sym)
			return n, nil
		}
		return skipField(num, typ, b)
	})
}

func unmarshalSymbol(b []byte, sym *SymbolSpec, depth int) error {
	if depth > maxDepth {
		return errTooDeep
	}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ == protowire.BytesType {
			switch num {
			case symbolNamespaceField:
				return consumeString(b, &sym.Namespace)
			case symbolKindField:
				return consumeString(b, &sym.Kind)
			case symbolNameField:
				return consumeString(b, &sym.Name)
			case symbolPatternField:
				return consumeString(b, &sym.Pattern)
			case symbolOriginField:
				return consumeString(b, &sym.Origin)
			case symbolFrameworkField:
				return consumeString(b, &sym.Framework)
			case symbolPriorityField:
				return consumeString(b, &sym.Priority)
			case symbolDescriptionField:
				return consumeString(b, &sym.Description)
			case symbolMembersField:
				v, n := protowire.ConsumeBytes(b)
				if n < 0 {
					return n, protowire.ParseError(n)
				}
				member := new(SymbolSpec)
				if err := unmarshalSymbol(v, member, depth+1); err != nil {
					return n, err
				}
				sym.Members = append(sym.Members, member)
				return n, nil
			}
		}
		if typ == protowire.VarintType {
			switch num {
			case symbolVirtualField:
				return consumeBool(b, &sym.Virtual)
			case symbolAbstractField:
				return consumeBool(b, &sym.Abstract)
			}
		}
		return skipField(num, typ, b)
	})
}

// consumeFields calls fn for every field in b.  fn consumes the field value
// and returns the number of bytes read.
func consumeFields(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("field tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		n, err := fn(num, typ, b)
		if err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
		b = b[n:]
	}
	return nil
}

func consumeString(b []byte, s *string) (int, error) {
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return n, protowire.ParseError(n)
	}
	*s = v
	return n, nil
}

func consumeBool(b []byte, v *bool) (int, error) {
	x, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return n, protowire.ParseError(n)
	}
	*v = protowire.DecodeBool(x)
	return n, nil
}

func skipField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return n, protowire.ParseError(n)
	}
	return n, nil
}
