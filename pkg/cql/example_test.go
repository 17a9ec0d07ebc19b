package cql_test

import (
	"fmt"

	"mercator-hq/saturn/pkg/cql"
)

func ExampleTokenize() {
	tokens, err := cql.Tokenize("define X: 3 + 4", "1.5.3")
	if err != nil {
		panic(err)
	}
	for _, tok := range tokens {
		fmt.Println(tok)
	}
	// Output:
	// keyword("define")@0
	// identifier("X")@7
	// punctuation(":")@8
	// number("3")@10
	// operator("+")@12
	// number("4")@14
}

func ExampleValidate() {
	res := cql.Validate("define X: Sum({ 1, 2 )")
	fmt.Println(res.IsValid)
	for _, e := range res.Errors {
		fmt.Println(e.Position, e.Message)
	}
	// Output:
	// false
	// 1:22 Mismatched closing bracket ')' at position 21, expected '}' to close '{' at position 14
	// 1:14 Unclosed opening bracket '(' at position 13 at the end of the code
}

func ExampleComplete() {
	items, err := cql.Complete("def", cql.DefaultVersion)
	if err != nil {
		panic(err)
	}
	for _, it := range items {
		fmt.Println(it.Label, it.Category)
	}
	// Output:
	// default keyword
	// define keyword
}
