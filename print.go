package celadon

import (
	"fmt"
	"io"
	"strings"
)

// Print writes an indented, human-readable view of values to w.
func Print(w io.Writer, values []*Value) {
	for _, v := range values {
		printLevel(w, v, 0)
	}
}

func printLevel(w io.Writer, v *Value, level int) {
	indent := strings.Repeat("    ", level)
	if v == nil {
		fmt.Fprintf(w, "%s:nil\n", indent)
		return
	}
	fmt.Fprintf(w, "%s(%s): ", indent, v.Type)

	switch v.Type {
	case ValueTypeList, ValueTypeQuote:
		items := v.List()
		fmt.Fprintf(w, "%d items\n", len(items))
		for _, t := range items {
			if t.Kind == KindPending || t.Value == nil {
				fmt.Fprintf(w, "%s    %v\n", indent, t)
				continue
			}
			printLevel(w, t.Value, level+1)
		}

	case ValueTypeMap:
		m := v.entries()
		fmt.Fprintf(w, "%d entries\n", m.Len())
		for i := 0; i < m.Len(); i++ {
			_, e, _ := m.At(i)
			printLevel(w, e.key.Value, level+1)
			printLevel(w, e.value.Value, level+2)
		}

	case ValueTypeSet:
		m := v.members()
		fmt.Fprintf(w, "%d members\n", m.Len())
		for i := 0; i < m.Len(); i++ {
			_, t, _ := m.At(i)
			printLevel(w, t.Value, level+1)
		}

	default:
		fmt.Fprintf(w, "%v\n", v)
	}
}

// Encode transforms values into text that reads back as the same values.
func Encode(values []*Value) []byte {
	nodes := make([]string, 0, len(values))
	for _, v := range values {
		nodes = append(nodes, v.String())
	}
	return []byte(strings.Join(nodes, " "))
}

// EncodeTokens writes a buffer back as source text, pending tokens included.
func EncodeTokens(ts Tokens) []byte {
	return []byte(ts.String())
}
