package main

import (
	"log"
	"os"

	"github.com/tommyettinger/celadon"
)

func main() {
	input := `
		{defn fib [n] {if (< n 2) n (+ (fib (- n 1)) (fib (- n 2)))}}
		(fib 10)
		[1 2.5 'three' :four]
		#set[1 1 2 3]
		(:(1 2 3))
	`

	ts, err := celadon.Read([]byte(input))
	if err != nil {
		log.Fatal("celadon.Read:", err)
	}

	values, err := celadon.NewContext().Evaluate(ts)
	if err != nil {
		log.Fatal("Evaluate:", err)
	}

	celadon.Print(os.Stdout, values)
}
