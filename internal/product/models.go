package product

type Product struct {
	ID    int64   `json:"id" db:"id"`
	Name  string  `json:"name" db:"name"`
	Stock float64 `json:"stock" db:"stock"`
	Price *int32  `json:"price" db:"price"`
}
