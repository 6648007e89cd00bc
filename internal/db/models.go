package db

// Book is a catalog record. Borrowed is the single lending flag; no
// further borrowing policy exists at this layer.
type Book struct {
	ID       int64  `json:"id" db:"book_id"`
	Title    string `json:"title" db:"title"`
	Author   string `json:"author" db:"author"`
	ISBN     string `json:"isbn" db:"isbn"`
	Category string `json:"category" db:"category"`
	Borrowed bool   `json:"borrowed" db:"borrowed"`
}
