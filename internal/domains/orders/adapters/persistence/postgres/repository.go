package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM and moves product stock
// in the same database transaction.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle
// and applies the schema through the migrations package.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID              string            `gorm:"primaryKey;column:id;size:36"`
	UserID          *string           `gorm:"column:user_id;size:36;index"`
	CustomerName    string            `gorm:"column:customer_name;size:255"`
	CustomerEmail   string            `gorm:"column:customer_email;size:255"`
	CustomerPhone   string            `gorm:"column:customer_phone;size:32"`
	CustomerAddress string            `gorm:"column:customer_address;type:text"`
	Total           decimal.Decimal   `gorm:"column:total;type:numeric(12,2)"`
	Status          string            `gorm:"column:status;type:varchar(16);index"`
	Items           []orderItemRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;index"`
	UpdatedAt       time.Time         `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID        string          `gorm:"primaryKey;column:id;size:36"`
	OrderID   string          `gorm:"column:order_id;size:36;index"`
	Position  int             `gorm:"column:position"`
	ProductID string          `gorm:"column:product_id;size:36;index"`
	Quantity  int             `gorm:"column:quantity"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// stockRow is the slice of the catalog's products table the ledger touches.
type stockRow struct {
	ID    string `gorm:"column:id"`
	Stock int    `gorm:"column:stock"`
}

const productsTable = "products"

// WithinTx runs fn inside a database transaction.
func (r *Repository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(ctx, &gormTx{db: db})
	})
}

// GetByID fetches an order with its items.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).Preload("Items", byPosition).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns a page of orders, newest first, plus the total matching the filter.
func (r *Repository) List(ctx context.Context, query ports.ListQuery) ([]*domain.Order, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	base := r.db.WithContext(ctx).Model(&orderRecord{})
	if search := strings.ToLower(strings.TrimSpace(query.Search)); search != "" {
		like := "%" + search + "%"
		base = base.Where("LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ? OR LOWER(id) LIKE ?", like, like, like)
	}
	if query.Status != nil {
		base = base.Where("status = ?", string(*query.Status))
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := base.Preload("Items", byPosition).Order("created_at DESC").Order("id DESC").Offset(max(query.Offset, 0))
	if query.Limit > 0 {
		page = page.Limit(query.Limit)
	}
	var records []orderRecord
	if err := page.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return toDomainList(records), total, nil
}

// ListByUser returns every order attributed to the user, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Preload("Items", byPosition).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

// CountByProduct counts the orders holding at least one item for the product.
func (r *Repository) CountByProduct(ctx context.Context, productID string) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&orderItemRecord{}).
		Where("product_id = ?", productID).
		Distinct("order_id").
		Count(&count).Error
	return count, err
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

type gormTx struct {
	db *gorm.DB
}

// ReadStock selects the product row FOR UPDATE so concurrent checkouts queue behind it.
func (t *gormTx) ReadStock(ctx context.Context, productID string) (int, error) {
	var row stockRow
	err := t.db.WithContext(ctx).
		Table(productsTable).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "stock").
		Where("id = ?", productID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: %s", ports.ErrProductNotFound, productID)
	}
	if err != nil {
		return 0, err
	}
	return row.Stock, nil
}

// AdjustStock applies the delta with a guard so stock never drops below zero.
func (t *gormTx) AdjustStock(ctx context.Context, productID string, delta int) error {
	result := t.db.WithContext(ctx).
		Table(productsTable).
		Where("id = ? AND stock + ? >= 0", productID, delta).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	var count int64
	if err := t.db.WithContext(ctx).Table(productsTable).Where("id = ?", productID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", ports.ErrProductNotFound, productID)
	}
	return fmt.Errorf("%w: %s", ports.ErrInsufficientStock, productID)
}

func (t *gormTx) Insert(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	record := toRecord(order)
	return t.db.WithContext(ctx).Create(&record).Error
}

// LockOrder loads the order FOR UPDATE; its items are read in the same transaction.
func (t *gormTx) LockOrder(ctx context.Context, id string) (*domain.Order, error) {
	var record orderRecord
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := t.db.WithContext(ctx).Where("order_id = ?", id).Order("position").Find(&record.Items).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (t *gormTx) UpdateStatus(ctx context.Context, id string, status domain.Status, updatedAt time.Time) error {
	result := t.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{"status": string(status), "updated_at": updatedAt})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

func toRecord(order *domain.Order) orderRecord {
	rec := orderRecord{
		ID:              order.ID,
		UserID:          order.UserID,
		CustomerName:    order.Customer.Name,
		CustomerEmail:   order.Customer.Email,
		CustomerPhone:   order.Customer.Phone,
		CustomerAddress: order.Customer.Address,
		Total:           order.Total,
		Status:          string(order.Status),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	rec.Items = make([]orderItemRecord, 0, len(order.Items))
	for i, item := range order.Items {
		rec.Items = append(rec.Items, orderItemRecord{
			ID:        item.ID,
			OrderID:   order.ID,
			Position:  i,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return rec
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:     r.ID,
		UserID: r.UserID,
		Customer: domain.Customer{
			Name:    r.CustomerName,
			Email:   r.CustomerEmail,
			Phone:   r.CustomerPhone,
			Address: r.CustomerAddress,
		},
		Total:     r.Total,
		Status:    domain.Status(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	order.Items = make([]domain.Item, 0, len(r.Items))
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.Item{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return order
}

func toDomainList(records []orderRecord) []*domain.Order {
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders
}
