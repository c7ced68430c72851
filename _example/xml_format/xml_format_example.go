package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/tommyettinger/celadon"
)

func printTree(value *celadon.Value) {
	printIndentedTree(value, 0)
}

func printIndentedTree(value *celadon.Value, indentationLevel int) {
	indent := strings.Repeat("  ", indentationLevel)
	if value.Type == celadon.ValueTypeList {
		fmt.Printf("%s<%s>\n", indent, value.Type)
		for _, item := range value.List() {
			printIndentedTree(item.Value, indentationLevel+1)
		}
		fmt.Printf("%s</%s>\n", indent, value.Type)
		return
	}
	fmt.Printf("%s<%s>%v</%s>\n", indent, value.Type, value, value.Type)
}

func main() {
	input := `[(+ 1 2) [89 :A :B [67 3.27]] 'Hello world!' ` + "`c`" + `]`

	values, err := celadon.NewContext().Eval(input)
	if err != nil {
		log.Fatal("Eval:", err)
	}

	for _, value := range values {
		printTree(value)
	}
}
