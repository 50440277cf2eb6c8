package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/admitdesk/admitdesk/pkg/models"
	"github.com/admitdesk/admitdesk/pkg/store/postgres/migrations"
)

type IntentCategorySchema struct {
	bun.BaseModel `bun:"table:intent_category,alias:ic" yaml:"-"`

	ID          int64     `bun:",pk,autoincrement"                                           yaml:"id,omitempty"`
	CreatedAt   time.Time `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp" yaml:"created_at,omitempty"`
	UpdatedAt   time.Time `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp" yaml:"updated_at,omitempty"`
	Name        string    `bun:"type:varchar(100),notnull"                                   yaml:"name"`
	Description string    `bun:",notnull"                                                    yaml:"description"`
	// comma-separated
	Keywords string `bun:",notnull" yaml:"keywords"`
}

var _ bun.BeforeAppendModelHook = (*IntentCategorySchema)(nil)

func (s *IntentCategorySchema) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		s.UpdatedAt = time.Now()
	}
	return nil
}

// BeforeCreateTable is a marker method to ensure uniform interface across all table models - used in table creation iterator
func (s *IntentCategorySchema) BeforeCreateTable(
	_ context.Context,
	_ *bun.CreateTableQuery,
) error {
	return nil
}

type ResponseSchema struct {
	bun.BaseModel `bun:"table:response,alias:r" yaml:"-"`

	ID           int64                 `bun:",pk,autoincrement"                                           yaml:"id,omitempty"`
	CreatedAt    time.Time             `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp" yaml:"created_at,omitempty"`
	UpdatedAt    time.Time             `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp" yaml:"updated_at,omitempty"`
	CategoryID   int64                 `bun:",notnull"                                                    yaml:"category_id"`
	ResponseText string                `bun:",notnull"                                                    yaml:"response_text"`
	Priority     int                   `bun:",notnull,default:1"                                          yaml:"priority"`
	Category     *IntentCategorySchema `bun:"rel:belongs-to,join:category_id=id,on_delete:cascade"        yaml:"-"`
}

var _ bun.BeforeAppendModelHook = (*ResponseSchema)(nil)

func (s *ResponseSchema) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		s.UpdatedAt = time.Now()
	}
	return nil
}

func (s *ResponseSchema) BeforeCreateTable(
	_ context.Context,
	_ *bun.CreateTableQuery,
) error {
	return nil
}

type AdmissionSchema struct {
	bun.BaseModel `bun:"table:admission,alias:a" yaml:"-"`

	ID                int64                  `bun:",pk,autoincrement"                                           yaml:"id,omitempty"`
	AdmissionCode     uuid.UUID              `bun:"type:uuid,nullzero,notnull,unique,default:gen_random_uuid()" yaml:"admission_code"`
	CreatedAt         time.Time              `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp" yaml:"created_at,omitempty"`
	UpdatedAt         time.Time              `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp" yaml:"updated_at,omitempty"`
	FirstName         string                 `bun:"type:varchar(100),notnull"                                   yaml:"first_name"`
	LastName          string                 `bun:"type:varchar(100),notnull"                                   yaml:"last_name"`
	Email             string                 `bun:"type:varchar(254),notnull,unique"                            yaml:"email"`
	Phone             string                 `bun:"type:varchar(20),notnull"                                    yaml:"phone"`
	Program           string                 `bun:"type:varchar(100),notnull"                                   yaml:"program"`
	Status            models.AdmissionStatus `bun:"type:varchar(20),notnull"                                    yaml:"status"`
	EntryTestUnlocked bool                   `bun:",notnull,default:false"                                      yaml:"entry_test_unlocked"`

	Guardians []*GuardianSchema `bun:"rel:has-many,join:id=admission_id" yaml:"-"`
	Documents []*DocumentSchema `bun:"rel:has-many,join:id=admission_id" yaml:"-"`
	Payments  []*PaymentSchema  `bun:"rel:has-many,join:id=admission_id" yaml:"-"`
	EntryTest *EntryTestSchema  `bun:"rel:has-one,join:id=admission_id"  yaml:"-"`
}

var _ bun.BeforeAppendModelHook = (*AdmissionSchema)(nil)

func (s *AdmissionSchema) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		s.UpdatedAt = time.Now()
	}
	return nil
}

func (s *AdmissionSchema) BeforeCreateTable(
	_ context.Context,
	_ *bun.CreateTableQuery,
) error {
	return nil
}

type DocumentSchema struct {
	bun.BaseModel `bun:"table:document,alias:d" yaml:"-"`

	ID           int64            `bun:",pk,autoincrement"                                           yaml:"id,omitempty"`
	AdmissionID  int64            `bun:",notnull"                                                    yaml:"admission_id"`
	DocumentType string           `bun:"type:varchar(50),notnull"                                    yaml:"document_type"`
	File         string           `bun:",notnull"                                                    yaml:"file"`
	FileName     string           `bun:",notnull"                                                    yaml:"file_name"`
	ContentType  string           `bun:",notnull"                                                    yaml:"content_type"`
	Verified     bool             `bun:",notnull,default:false"                                      yaml:"verified"`
	UploadedAt   time.Time        `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp" yaml:"uploaded_at,omitempty"`
	Admission    *AdmissionSchema `bun:"rel:belongs-to,join:admission_id=id,on_delete:cascade"       yaml:"-"`
}

func (s *DocumentSchema) BeforeCreateTable(
	_ context.Context,
	_ *bun.CreateTableQuery,
) error {
	return nil
}

type PaymentSchema struct {
	bun.BaseModel `bun:"table:payment,alias:p" yaml:"-"`

	ID            int64                `bun:",pk,autoincrement"                                           yaml:"id,omitempty"`
	AdmissionID   int64                `bun:",notnull"                                                    yaml:"admission_id"`
	PaymentType   string               `bun:"type:varchar(50),notnull"                                    yaml:"payment_type"`
	Amount        decimal.Decimal      `bun:"type:numeric(10,2),notnull"                                  yaml:"amount"`
	Status        models.PaymentStatus `bun:"type:varchar(20),notnull"                                    yaml:"status"`
	PaymentDate   time.Time            `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp" yaml:"payment_date,omitempty"`
	TransactionID string               `bun:"type:varchar(100),notnull,unique"                            yaml:"transaction_id"`
	Admission     *AdmissionSchema     `bun:"rel:belongs-to,join:admission_id=id,on_delete:cascade"       yaml:"-"`
}

func (s *PaymentSchema) BeforeCreateTable(
	_ context.Context,
	_ *bun.CreateTableQuery,
) error {
	return nil
}

type GuardianSchema struct {
	bun.BaseModel `bun:"table:guardian,alias:g" yaml:"-"`

	ID          int64            `bun:",pk,autoincrement"                                     yaml:"id,omitempty"`
	AdmissionID int64            `bun:",notnull"                                              yaml:"admission_id"`
	Name        string           `bun:"type:varchar(200),notnull"                             yaml:"name"`
	Relation    string           `bun:"type:varchar(50),notnull"                              yaml:"relation"`
	Phone       string           `bun:"type:varchar(20),notnull"                              yaml:"phone"`
	Occupation  string           `bun:"type:varchar(100),notnull"                             yaml:"occupation"`
	Income      decimal.Decimal  `bun:"type:numeric(12,2),notnull"                            yaml:"income"`
	Admission   *AdmissionSchema `bun:"rel:belongs-to,join:admission_id=id,on_delete:cascade" yaml:"-"`
}

func (s *GuardianSchema) BeforeCreateTable(
	_ context.Context,
	_ *bun.CreateTableQuery,
) error {
	return nil
}

type EntryTestSchema struct {
	bun.BaseModel `bun:"table:entry_test,alias:et" yaml:"-"`

	ID          int64            `bun:",pk,autoincrement"                                     yaml:"id,omitempty"`
	AdmissionID int64            `bun:",notnull,unique"                                       yaml:"admission_id"`
	TestDate    *time.Time       `bun:"type:timestamptz"                                      yaml:"test_date,omitempty"`
	Venue       *string          `bun:"type:varchar(200)"                                     yaml:"venue,omitempty"`
	Status      string           `bun:"type:varchar(20),notnull"                                    yaml:"status"`
	Score       *int             `bun:"score"                                                 yaml:"score,omitempty"`
	Admission   *AdmissionSchema `bun:"rel:belongs-to,join:admission_id=id,on_delete:cascade" yaml:"-"`
}

func (s *EntryTestSchema) BeforeCreateTable(
	_ context.Context,
	_ *bun.CreateTableQuery,
) error {
	return nil
}

// Create foreign key indexes after table creation
var _ bun.AfterCreateTableHook = (*ResponseSchema)(nil)
var _ bun.AfterCreateTableHook = (*DocumentSchema)(nil)
var _ bun.AfterCreateTableHook = (*PaymentSchema)(nil)
var _ bun.AfterCreateTableHook = (*GuardianSchema)(nil)

func (*ResponseSchema) AfterCreateTable(
	ctx context.Context,
	query *bun.CreateTableQuery,
) error {
	_, err := query.DB().NewCreateIndex().
		Model((*ResponseSchema)(nil)).
		Index("response_category_priority_idx").
		ColumnExpr("category_id, priority DESC, id").
		IfNotExists().
		Exec(ctx)
	return err
}

func (*DocumentSchema) AfterCreateTable(
	ctx context.Context,
	query *bun.CreateTableQuery,
) error {
	return createAdmissionIDIndex(ctx, query, (*DocumentSchema)(nil), "document")
}

func (*PaymentSchema) AfterCreateTable(
	ctx context.Context,
	query *bun.CreateTableQuery,
) error {
	return createAdmissionIDIndex(ctx, query, (*PaymentSchema)(nil), "payment")
}

func (*GuardianSchema) AfterCreateTable(
	ctx context.Context,
	query *bun.CreateTableQuery,
) error {
	return createAdmissionIDIndex(ctx, query, (*GuardianSchema)(nil), "guardian")
}

func createAdmissionIDIndex(
	ctx context.Context,
	query *bun.CreateTableQuery,
	model interface{},
	table string,
) error {
	_, err := query.DB().NewCreateIndex().
		Model(model).
		Index(fmt.Sprintf("%s_admission_id_idx", table)).
		Column("admission_id").
		IfNotExists().
		Exec(ctx)
	return err
}

// tableList is ordered parents first so foreign keys resolve.
var tableList = []bun.BeforeCreateTableHook{
	&IntentCategorySchema{},
	&ResponseSchema{},
	&AdmissionSchema{},
	&DocumentSchema{},
	&PaymentSchema{},
	&GuardianSchema{},
	&EntryTestSchema{},
}

// CreateSchema creates the db schema if it does not exist and applies migrations.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for _, schema := range tableList {
		_, err := db.NewCreateTable().
			Model(schema).
			IfNotExists().
			WithForeignKeys().
			Exec(ctx)
		if err != nil {
			// bun still trying to create indexes despite IfNotExists flag
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			return fmt.Errorf("error creating table for schema %T: %w", schema, err)
		}
	}

	if err := migrations.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// DropSchema drops every table. Used by tests and fixture loading.
func DropSchema(ctx context.Context, db *bun.DB) error {
	for i := len(tableList) - 1; i >= 0; i-- {
		_, err := db.NewDropTable().
			Model(tableList[i]).
			Cascade().
			IfExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("error dropping table for schema %T: %w", tableList[i], err)
		}
	}
	return nil
}

func registerModels(db *bun.DB) {
	db.RegisterModel(
		(*IntentCategorySchema)(nil),
		(*ResponseSchema)(nil),
		(*AdmissionSchema)(nil),
		(*DocumentSchema)(nil),
		(*PaymentSchema)(nil),
		(*GuardianSchema)(nil),
		(*EntryTestSchema)(nil),
	)
}
