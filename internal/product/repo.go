package product

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"
)

type ProductDTO struct {
	Name  string
	Stock float64
	Price *int32
}

type ProductRepo interface {
	List(ctx context.Context) ([]Product, error)
	Find(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, dto *ProductDTO) (*Product, error)
	Update(ctx context.Context, id int64, dto *ProductDTO) (*Product, error)
	Delete(ctx context.Context, id int64) error
}

type productRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewProductRepo(db *sql.DB, logger *zap.Logger) ProductRepo {
	return &productRepo{
		db:     db,
		logger: logger,
	}
}

const (
	listProductsQuery = `
					SELECT id, name, stock, price FROM products ORDER BY id
					`
	findProductQuery = `
					SELECT id, name, stock, price FROM products WHERE id = $1
					`
	insertProductQuery = `
					INSERT INTO products (name, stock, price)
					VALUES ($1, $2, $3)
					RETURNING id, name, stock, price
					`
	updateProductQuery = `
					UPDATE products SET name = $2, stock = $3, price = $4
					WHERE id = $1
					RETURNING id, name, stock, price
					`
	deleteProductQuery = `
					DELETE FROM products WHERE id = $1
					`
)

func (p *productRepo) List(ctx context.Context) ([]Product, error) {
	rows, err := p.db.QueryContext(ctx, listProductsQuery)
	if err != nil {
		p.logger.Error("failed to list products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var prd Product
		if err := rows.Scan(&prd.ID, &prd.Name, &prd.Stock, &prd.Price); err != nil {
			p.logger.Error("failed to scan product row", zap.Error(err))
			return nil, err
		}
		products = append(products, prd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (p *productRepo) Find(ctx context.Context, id int64) (*Product, error) {
	var prd Product
	row := p.db.QueryRowContext(ctx, findProductQuery, id)
	if err := row.Scan(&prd.ID, &prd.Name, &prd.Stock, &prd.Price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		p.logger.Error("failed to find product", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return &prd, nil
}

func (p *productRepo) Create(ctx context.Context, dto *ProductDTO) (*Product, error) {
	var prd Product
	row := p.db.QueryRowContext(ctx, insertProductQuery, dto.Name, dto.Stock, dto.Price)
	if err := row.Scan(&prd.ID, &prd.Name, &prd.Stock, &prd.Price); err != nil {
		p.logger.Error("failed to insert product", zap.Error(err))
		return nil, err
	}
	return &prd, nil
}

func (p *productRepo) Update(ctx context.Context, id int64, dto *ProductDTO) (*Product, error) {
	var prd Product
	row := p.db.QueryRowContext(ctx, updateProductQuery, id, dto.Name, dto.Stock, dto.Price)
	if err := row.Scan(&prd.ID, &prd.Name, &prd.Stock, &prd.Price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		p.logger.Error("failed to update product", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return &prd, nil
}

func (p *productRepo) Delete(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, deleteProductQuery, id)
	if err != nil {
		p.logger.Error("failed to delete product", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
