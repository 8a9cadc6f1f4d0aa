package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for every bounded context. Adapter constructors do not touch
// the schema, so callers must run it before serving traffic.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&categoryRecord{},
		&productRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&idempotencyKeyRecord{},
		&userRecord{},
		&sessionRecord{},
	)
}

// Category schema mirrors the catalog Postgres adapter.
type categoryRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:36"`
	Name      string    `gorm:"column:name;size:255"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (categoryRecord) TableName() string { return "categories" }

// Product schema mirrors the catalog Postgres adapter. Stock is owned by the orders ledger.
type productRecord struct {
	ID             string           `gorm:"primaryKey;column:id;size:36"`
	Name           string           `gorm:"column:name;size:255"`
	Description    string           `gorm:"column:description;type:text"`
	Price          decimal.Decimal  `gorm:"column:price;type:numeric(12,2)"`
	OriginalPrice  *decimal.Decimal `gorm:"column:original_price;type:numeric(12,2)"`
	CategoryID     string           `gorm:"column:category_id;size:36;index"`
	Stock          int              `gorm:"column:stock;default:0"`
	Rating         float64          `gorm:"column:rating;default:0"`
	Popularity     int              `gorm:"column:popularity;default:0"`
	IsNew          bool             `gorm:"column:is_new"`
	Specifications []specification  `gorm:"column:specifications;serializer:json"`
	Images         pq.StringArray   `gorm:"column:images;type:text[]"`
	CreatedAt      time.Time        `gorm:"column:created_at;index"`
	UpdatedAt      time.Time        `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

type specification struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID              string          `gorm:"primaryKey;column:id;size:36"`
	UserID          *string         `gorm:"column:user_id;size:36;index"`
	CustomerName    string          `gorm:"column:customer_name;size:255"`
	CustomerEmail   string          `gorm:"column:customer_email;size:255"`
	CustomerPhone   string          `gorm:"column:customer_phone;size:32"`
	CustomerAddress string          `gorm:"column:customer_address;type:text"`
	Total           decimal.Decimal `gorm:"column:total;type:numeric(12,2)"`
	Status          string          `gorm:"column:status;type:varchar(16);index"`
	CreatedAt       time.Time       `gorm:"column:created_at;index"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Order items restrict deleting the product they reference.
type orderItemRecord struct {
	ID        string          `gorm:"primaryKey;column:id;size:36"`
	OrderID   string          `gorm:"column:order_id;size:36;index"`
	Position  int             `gorm:"column:position"`
	ProductID string          `gorm:"column:product_id;size:36;index"`
	Quantity  int             `gorm:"column:quantity"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Product   *productRecord  `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Idempotency key schema mirrors the claim the orders transaction writes.
type idempotencyKeyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;size:36"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyKeyRecord) TableName() string { return "order_idempotency_keys" }

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           string    `gorm:"primaryKey;column:id;size:36"`
	Name         string    `gorm:"column:name;size:100"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex"`
	Phone        string    `gorm:"column:phone;size:20"`
	Role         string    `gorm:"column:role;type:varchar(16);default:USER"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Session schema mirrors the session store.
type sessionRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:36"`
	UserID    string    `gorm:"column:user_id;size:36;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (sessionRecord) TableName() string { return "user_sessions" }
