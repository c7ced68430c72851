package main

import (
	"fmt"
	"log"

	"github.com/tommyettinger/celadon/lexer"
)

func main() {
	input := `
		{defn twice [x] ; comment
			(* x 2)}
		(twice #infix(3 + 4))
		#map['hey' :A 'you' [67 3.27 0x1F]]
	`

	tokens, err := lexer.Tokenize([]byte(input))
	if err != nil {
		log.Fatal("lexer.Tokenize:", err)
	}

	for i, tok := range tokens {
		line, col := tok.Pos()
		lexeme := tok.Text()
		tt := tok.Type().String()

		fmt.Printf("token[%d] (type: %v, mode: %q, line: %d, col: %d)\n\t-> %q\n\n", i, tt, tok.Mode(), line, col, lexeme)
	}
}
