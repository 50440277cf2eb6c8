package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dbfixture"
	"github.com/uptrace/bun/extra/bundebug"
	"gopkg.in/yaml.v3"

	"github.com/admitdesk/admitdesk/pkg/models"
)

type Row interface {
	IntentCategorySchema | ResponseSchema | AdmissionSchema | DocumentSchema |
		PaymentSchema | GuardianSchema | EntryTestSchema
}

type FixtureModel[T Row] struct {
	Model string `yaml:"model"`
	Rows  []T    `yaml:"rows"`
}

type Fixtures[T Row] []FixtureModel[T]

var (
	programs      = []string{"BSCS", "BBA", "BSEE", "BSMath", "MBA"}
	documentTypes = []string{"transcript", "cnic", "photo", "domicile"}
	paymentTypes  = []string{"admission_fee", "application_fee", "hostel"}
	relations     = []string{"father", "mother", "guardian"}
	fixtureKB     = []struct {
		name      string
		keywords  string
		responses []string
	}{
		{"fees", "fee, fees, tuition, cost", []string{"Tuition is charged per semester.", "Fee vouchers are issued by the accounts office."}},
		{"deadline", "deadline, last date, closing", []string{"Applications close on the last working day of July."}},
		{"documents", "document, documents, transcript", []string{"Upload your transcript and a recent photograph."}},
		{"entry test", "test, entry test, exam", []string{"The entry test is held on campus."}},
	}
)

func generateTimeLastNDays(nDays int) time.Time {
	now := time.Now()
	start := now.Add(time.Duration(-nDays) * 24 * time.Hour)
	return gofakeit.DateRange(start, now)
}

// GenerateFixtureData writes YAML fixtures for every table to outputDir. Ids are
// assigned explicitly so child rows can reference their admission.
func GenerateFixtureData(fixtureCount int, outputDir string) error {
	fakerGlobal := gofakeit.NewUnlocked(0)
	gofakeit.SetGlobalFaker(fakerGlobal)

	categories := make([]IntentCategorySchema, len(fixtureKB))
	var responses []ResponseSchema
	for i, kb := range fixtureKB {
		dateCreated := generateTimeLastNDays(30)
		categories[i] = IntentCategorySchema{
			ID:          int64(i + 1),
			CreatedAt:   dateCreated,
			UpdatedAt:   dateCreated,
			Name:        kb.name,
			Description: gofakeit.Sentence(8),
			Keywords:    kb.keywords,
		}
		for j, text := range kb.responses {
			responses = append(responses, ResponseSchema{
				ID:           int64(len(responses) + 1),
				CreatedAt:    dateCreated,
				UpdatedAt:    dateCreated,
				CategoryID:   categories[i].ID,
				ResponseText: text,
				Priority:     len(kb.responses) - j,
			})
		}
	}

	statuses := []models.AdmissionStatus{
		models.AdmissionStatusPending,
		models.AdmissionStatusReviewing,
		models.AdmissionStatusAccepted,
		models.AdmissionStatusRejected,
	}
	admissions := make([]AdmissionSchema, fixtureCount)
	for i := 0; i < fixtureCount; i++ {
		dateCreated := generateTimeLastNDays(14)
		admissions[i] = AdmissionSchema{
			ID:                int64(i + 1),
			AdmissionCode:     uuid.New(),
			CreatedAt:         dateCreated,
			UpdatedAt:         dateCreated,
			FirstName:         gofakeit.FirstName(),
			LastName:          gofakeit.LastName(),
			Email:             fmt.Sprintf("%d.%s", i, strings.ToLower(gofakeit.Email())),
			Phone:             gofakeit.Numerify("03#########"),
			Program:           gofakeit.RandomString(programs),
			Status:            statuses[gofakeit.Number(0, len(statuses)-1)],
			EntryTestUnlocked: gofakeit.Bool(),
		}
	}

	var (
		documents  []DocumentSchema
		payments   []PaymentSchema
		guardians  []GuardianSchema
		entryTests []EntryTestSchema
	)
	for _, a := range admissions {
		for j := 0; j < gofakeit.Number(1, 3); j++ {
			fileName := gofakeit.Word() + ".pdf"
			documents = append(documents, DocumentSchema{
				ID:           int64(len(documents) + 1),
				AdmissionID:  a.ID,
				DocumentType: gofakeit.RandomString(documentTypes),
				File:         fmt.Sprintf("documents/%s/%s-%s", a.AdmissionCode, uuid.NewString(), fileName),
				FileName:     fileName,
				ContentType:  "application/pdf",
				Verified:     gofakeit.Bool(),
				UploadedAt:   a.CreatedAt,
			})
		}

		payments = append(payments, PaymentSchema{
			ID:            int64(len(payments) + 1),
			AdmissionID:   a.ID,
			PaymentType:   gofakeit.RandomString(paymentTypes),
			Amount:        decimal.NewFromFloat(gofakeit.Price(1000, 90000)).Round(2),
			Status:        models.PaymentStatusPending,
			PaymentDate:   a.CreatedAt,
			TransactionID: uuid.NewString(),
		})

		guardians = append(guardians, GuardianSchema{
			ID:          int64(len(guardians) + 1),
			AdmissionID: a.ID,
			Name:        gofakeit.Name(),
			Relation:    gofakeit.RandomString(relations),
			Phone:       gofakeit.Numerify("03#########"),
			Occupation:  gofakeit.JobTitle(),
			Income:      decimal.NewFromInt(int64(gofakeit.Number(20000, 500000))),
		})

		if a.EntryTestUnlocked {
			testDate := gofakeit.FutureDate()
			venue := gofakeit.City() + " campus"
			entryTests = append(entryTests, EntryTestSchema{
				ID:          int64(len(entryTests) + 1),
				AdmissionID: a.ID,
				TestDate:    &testDate,
				Venue:       &venue,
				Status:      models.DefaultEntryTestStatus,
			})
		}
	}

	if outputDir == "" {
		outputDir = "./"
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("unable to create %s: %w", outputDir, err)
	}

	// file names sort parents first, which is the order LoadFixtures reads them in
	writes := []func() error{
		func() error {
			return writeFixtureToYAML(Fixtures[IntentCategorySchema]{
				{Model: "IntentCategorySchema", Rows: categories},
			}, outputDir, "01_category_fixtures.yaml")
		},
		func() error {
			return writeFixtureToYAML(Fixtures[ResponseSchema]{
				{Model: "ResponseSchema", Rows: responses},
			}, outputDir, "02_response_fixtures.yaml")
		},
		func() error {
			return writeFixtureToYAML(Fixtures[AdmissionSchema]{
				{Model: "AdmissionSchema", Rows: admissions},
			}, outputDir, "03_admission_fixtures.yaml")
		},
		func() error {
			return writeFixtureToYAML(Fixtures[DocumentSchema]{
				{Model: "DocumentSchema", Rows: documents},
			}, outputDir, "04_document_fixtures.yaml")
		},
		func() error {
			return writeFixtureToYAML(Fixtures[PaymentSchema]{
				{Model: "PaymentSchema", Rows: payments},
			}, outputDir, "05_payment_fixtures.yaml")
		},
		func() error {
			return writeFixtureToYAML(Fixtures[GuardianSchema]{
				{Model: "GuardianSchema", Rows: guardians},
			}, outputDir, "06_guardian_fixtures.yaml")
		},
		func() error {
			return writeFixtureToYAML(Fixtures[EntryTestSchema]{
				{Model: "EntryTestSchema", Rows: entryTests},
			}, outputDir, "07_entry_test_fixtures.yaml")
		},
	}
	for _, write := range writes {
		if err := write(); err != nil {
			return err
		}
	}
	return nil
}

func writeFixtureToYAML[T Row](fixtures Fixtures[T], outputDir, filename string) error {
	data, err := yaml.Marshal(&fixtures)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filename, err)
	}

	path := filepath.Join(outputDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Infof("fixtures generated successfully in %s", path)
	return nil
}

// LoadFixtures recreates the schema and loads every YAML file in fixturePath.
func LoadFixtures(
	ctx context.Context,
	db *bun.DB,
	fixturePath string,
) error {
	db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))

	if err := DropSchema(ctx, db); err != nil {
		return err
	}
	if err := migrationsReset(ctx, db); err != nil {
		return err
	}
	if err := CreateSchema(ctx, db); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	registerModels(db)

	fixture := dbfixture.New(db)

	files, err := os.ReadDir(fixturePath)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		switch filepath.Ext(file.Name()) {
		case ".yaml", ".yml":
			err := fixture.Load(ctx, os.DirFS(fixturePath), file.Name())
			if err != nil {
				return fmt.Errorf("failed to load fixture %s: %w", file.Name(), err)
			}
		}
	}

	return resetSequences(ctx, db)
}

// migrationsReset drops bun's migration bookkeeping so CreateSchema reapplies
// every migration to the fresh tables.
func migrationsReset(ctx context.Context, db *bun.DB) error {
	for _, table := range []string{"bun_migrations", "bun_migration_locks"} {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
	}
	return nil
}

// resetSequences moves each id sequence past the fixture ids.
func resetSequences(ctx context.Context, db *bun.DB) error {
	for _, schema := range tableList {
		table := db.Table(reflect.TypeOf(schema)).Name
		_, err := db.ExecContext(
			ctx,
			"SELECT setval(pg_get_serial_sequence(?, 'id'), COALESCE((SELECT MAX(id) FROM ?), 0) + 1, false)",
			table,
			bun.Ident(table),
		)
		if err != nil {
			return fmt.Errorf("failed to reset sequence for %s: %w", table, err)
		}
	}
	return nil
}
