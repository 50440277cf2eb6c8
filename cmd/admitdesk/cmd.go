package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/admitdesk/admitdesk/config"
	"github.com/admitdesk/admitdesk/internal"
	"github.com/admitdesk/admitdesk/pkg/chatbot"
	"github.com/admitdesk/admitdesk/pkg/store/postgres"
	"github.com/admitdesk/admitdesk/pkg/store/postgres/migrations"
)

var (
	log *logrus.Logger

	cfgFile     string
	showVersion bool
	dumpConfig  bool
	generateKey bool
	fixturePath string
	kbFile      string
)

var cmd = &cobra.Command{
	Use:   "admitdesk",
	Short: "admitdesk answers applicant questions and manages university admission records",
	Run:   func(cmd *cobra.Command, args []string) { run() },
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema and apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		db, err := postgres.NewPostgresConn(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		return postgres.CreateSchema(cmd.Context(), db)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List applied and pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		db, err := postgres.NewPostgresConn(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		applied, pending, err := migrations.Status(cmd.Context(), db)
		if err != nil {
			return err
		}
		for _, name := range applied {
			fmt.Printf("applied  %s\n", name)
		}
		for _, name := range pending {
			fmt.Printf("pending  %s\n", name)
		}
		return nil
	},
}

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Knowledge base utilities",
}

var kbImportCmd = &cobra.Command{
	Use:     "import",
	Short:   "Import intent categories and responses from a YAML file",
	Example: "admitdesk kb import -f knowledge_base.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(kbFile)
		if err != nil {
			return err
		}
		defer f.Close()

		kb, err := chatbot.DecodeKnowledgeBase(f)
		if err != nil {
			return err
		}

		appState := NewAppState(loadConfig())
		defer closeStore(appState)

		result, err := kb.Import(cmd.Context(), appState.KnowledgeStore)
		if err != nil {
			return err
		}
		fmt.Printf(
			"Imported %d categories and %d responses.\n",
			result.Categories,
			result.Responses,
		)
		return nil
	},
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test utilities",
}

var createFixturesCmd = &cobra.Command{
	Use:   "create-fixtures",
	Short: "Create fixtures for testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		fixtureCount, _ := cmd.Flags().GetInt("count")
		outputDir, _ := cmd.Flags().GetString("outputDir")
		if err := postgres.GenerateFixtureData(fixtureCount, outputDir); err != nil {
			return err
		}
		fmt.Println("Fixtures created successfully.")
		return nil
	},
}

var loadFixturesCmd = &cobra.Command{
	Use:   "load-fixtures",
	Short: "Load fixtures for testing. Drops and recreates every table.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		db, err := postgres.NewPostgresConn(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := postgres.LoadFixtures(cmd.Context(), db, fixturePath); err != nil {
			return fmt.Errorf("failed to load fixtures: %w", err)
		}
		fmt.Println("Fixtures loaded successfully.")
		return nil
	},
}

var dumpJsonSchemaCmd = &cobra.Command{
	Use:     "json-schema",
	Short:   "Generates JSON Schema for admitdesk's configuration file",
	Example: "admitdesk json-schema > admitdesk_config_schema.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := config.JSONSchema()
		if err != nil {
			return err
		}
		fmt.Println(string(schema))
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateStatusCmd)
	kbCmd.AddCommand(kbImportCmd)
	testCmd.AddCommand(createFixturesCmd)
	testCmd.AddCommand(loadFixturesCmd)
	cmd.AddCommand(migrateCmd)
	cmd.AddCommand(kbCmd)
	cmd.AddCommand(testCmd)
	cmd.AddCommand(dumpJsonSchemaCmd)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default config.yaml)")
	cmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "print version number")
	cmd.PersistentFlags().BoolVarP(&dumpConfig, "dump-config", "d", false, "dump config")
	cmd.PersistentFlags().
		BoolVarP(&generateKey, "generate-token", "g", false, "generate a new JWT token")

	kbImportCmd.Flags().StringVarP(&kbFile, "file", "f", "", "knowledge base YAML file")
	_ = kbImportCmd.MarkFlagRequired("file")

	createFixturesCmd.Flags().Int("count", 100, "Number of fixtures to generate per model")
	createFixturesCmd.Flags().String("outputDir", "./test_data", "Path to output fixtures")
	loadFixturesCmd.Flags().
		StringVarP(&fixturePath, "fixturePath", "f", "./test_data", "Path containing fixtures to load")
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Error configuring admitdesk: %s", err)
	}
	config.SetLogLevel(cfg)
	return cfg
}

// Execute executes the root cobra command.
func Execute() {
	log = internal.GetLogger()
	log.SetLevel(logrus.InfoLevel)

	err := cmd.ExecuteContext(context.Background())

	if err != nil {
		os.Exit(1)
	}
}
