package lexer

import "fmt"

// Category is the semantic class of a token, used by highlighters to pick
// a display style.
type Category string

const (
	CategoryComment     Category = "comment"
	CategoryString      Category = "string"
	CategoryNumber      Category = "number"
	CategoryDateTime    Category = "datetime"
	CategoryKeyword     Category = "keyword"
	CategoryFunction    Category = "function"
	CategoryDataType    Category = "dataType"
	CategoryOperator    Category = "operator"
	CategoryBracket     Category = "bracket"
	CategoryPunctuation Category = "punctuation"
	CategoryIdentifier  Category = "identifier"
)

// Categories returns every token category.
func Categories() []Category {
	return []Category{
		CategoryComment, CategoryString, CategoryNumber, CategoryDateTime,
		CategoryKeyword, CategoryFunction, CategoryDataType, CategoryOperator,
		CategoryBracket, CategoryPunctuation, CategoryIdentifier,
	}
}

// Token is a classified substring of the source. Start and End are
// half-open byte offsets.
type Token struct {
	Category Category `json:"category"`
	Lexeme   string   `json:"lexeme"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
}

// Len returns the length of the lexeme in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}

// String returns a debug representation: category("lexeme")@start.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Category, t.Lexeme, t.Start)
}
