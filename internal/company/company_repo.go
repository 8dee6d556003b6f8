package company

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=company_repo.go -destination=mock/company_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Migrate(ctx context.Context) error
	Create(ctx context.Context, company *Company) error
	FindByIDOrRegistrationNumber(ctx context.Context, key string) (*Company, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Company, error)
	FindAll(ctx context.Context) ([]Company, error)
	UpdateStatus(ctx context.Context, id string, status string, approvedDate *time.Time) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

// conn runs statements on the bound *sql.Tx when there is one, so gorm
// queries and the outbox insert share a transaction.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	if r.tx == nil {
		return r.db.WithContext(ctx)
	}
	gtx := r.db.Session(&gorm.Session{NewDB: true, SkipDefaultTransaction: true, Context: ctx})
	gtx.Statement.ConnPool = r.tx
	return gtx
}

func (r *repository) Migrate(ctx context.Context) error {
	return r.conn(ctx).AutoMigrate(&Company{})
}

func (r *repository) Create(ctx context.Context, company *Company) error {
	return r.conn(ctx).Create(company).Error
}

// FindByIDOrRegistrationNumber prefers an id match when key is both one
// record's id and another's registration number.
func (r *repository) FindByIDOrRegistrationNumber(ctx context.Context, key string) (*Company, error) {
	var company Company
	err := r.conn(ctx).
		Where("id = ? OR registration_number = ?", key, key).
		Order(clause.OrderBy{Expression: clause.Expr{SQL: "CASE WHEN id = ? THEN 0 ELSE 1 END", Vars: []any{key}}}).
		Take(&company).Error
	return &company, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Company, error) {
	var company Company
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&company).Error
	return &company, err
}

func (r *repository) FindAll(ctx context.Context) ([]Company, error) {
	var companies []Company
	err := r.conn(ctx).
		Order("submitted_date DESC").
		Find(&companies).Error
	return companies, err
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status string, approvedDate *time.Time) error {
	res := r.conn(ctx).
		Model(&Company{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        status,
			"approved_date": approvedDate,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
