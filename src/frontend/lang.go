package frontend

type reservedItem struct {
	val string
	typ itemType
}

// rw contains the set of all reserved Arara keywords.
// The first dimension equals the length of the word.
// The second dimension is the slice of all words of that length.
// Indexing by length and searching should be faster than using a hash table.
var rw = [...][]reservedItem{
	// One-grams
	{},
	// Two-grams
	{
		{val: "se", typ: SE},
	},
	// Three-grams
	{},
	// Four-grams
	{
		{val: "leia", typ: LEIA},
		{val: "faca", typ: FACA},
		{val: "real", typ: TIPO_REAL},
	},
	// Five-grams
	{
		{val: "entao", typ: ENTAO},
		{val: "senao", typ: SENAO},
		{val: "fimse", typ: FIMSE},
	},
	// Six-grams
	{},
	// Seven-grams
	{
		{val: "escreva", typ: ESCREVA},
		{val: "inteiro", typ: TIPO_INTEIRO},
	},
	// Eight-grams
	{
		{val: "enquanto", typ: ENQUANTO},
		{val: "booleano", typ: TIPO_BOOLEANO},
	},
	// Nine-grams
	{},
	// Ten-grams
	{},
	// Eleven-grams
	{
		{val: "fimenquanto", typ: FIMENQUANTO},
	},
}

// isKeyword returns true if the string s is a reserved Arara keyword.
// On the return of true the itemType of the keyword is returned.
// On the return of false the itemType is either IDENTIFIER or itemError.
func isKeyword(s string) (bool, itemType) {
	if len(s) == 0 {
		return false, itemError
	}
	if len(s) > len(rw) {
		return false, IDENTIFIER
	}

	// Check if string s is a reserved word by iterating over all words in rw of length len(s).
	for _, e1 := range rw[len(s)-1] {
		if e1.val == s {
			return true, e1.typ
		}
	}
	return false, IDENTIFIER
}
