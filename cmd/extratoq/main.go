package main

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"github.com/rfarias/extratoq/pkg/accounts"
	"github.com/rfarias/extratoq/pkg/categorizer"
	"github.com/rfarias/extratoq/pkg/config"
	"github.com/rfarias/extratoq/pkg/normalizer"
	"github.com/rfarias/extratoq/pkg/parser"
	"github.com/rfarias/extratoq/pkg/service"
)

var (
	cfgFile string
	dump    bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "extratoq",
	Short: "Convert bank, broker and payment statements to QIF and ezBookkeeping CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert [flags] <file_or_directory>",
	Short: "Convert statement files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, processor, p, err := buildApp(cmd)
		if err != nil {
			return err
		}

		path := args[0]
		info, err := os.Stat(path)
		if err != nil {
			return err
		}

		if dump {
			return dumpTransactions(logger, p, path, info.IsDir())
		}
		if info.IsDir() {
			return processor.ProcessDirectory(path)
		}
		return processor.ProcessFile(path)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <directory>",
	Short: "Poll a directory and convert statements as they arrive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, processor, _, err := buildApp(cmd)
		if err != nil {
			return err
		}
		return processor.Watch(cmd.Context(), args[0])
	},
}

func buildApp(cmd *cobra.Command) (*log.Logger, *service.Processor, *parser.Parser, error) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    verbose,
		ReportTimestamp: true,
		Prefix:          "extratoq",
		Level:           level,
	})

	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, nil, err
	}

	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		logger.Warn("using default categorization", "error", err)
	}
	accountList, err := config.LoadAccounts(cfg.AccountsFile)
	if err != nil {
		logger.Warn("account matching disabled", "error", err)
	}

	cat := categorizer.New(rules.Transfer, rules.Income, rules.Expense, logger)
	matcher := accounts.New(accountList, logger)
	dates := normalizer.NewDateParser(nil)
	p := parser.New(logger, dates, rules.Substituter, cat)
	processor := service.NewProcessor(cfg, logger, p, matcher, nil)

	return logger, processor, p, nil
}

// dumpTransactions parses without writing exports, pretty-printing the
// normalized transactions for inspection.
func dumpTransactions(logger *log.Logger, p *parser.Parser, path string, isDir bool) error {
	files := []string{path}
	if isDir {
		entries, err := os.ReadDir(path)
		if err != nil {
			return err
		}
		files = files[:0]
		for _, entry := range entries {
			if !entry.IsDir() {
				files = append(files, filepath.Join(path, entry.Name()))
			}
		}
	}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			logger.Warn("failed to read file", "file", file, "error", err)
			continue
		}
		txs, err := p.ProcessBytes(data, filepath.Base(file))
		if err != nil {
			logger.Warn("failed to parse file", "file", file, "error", err)
			continue
		}
		pp.Println(txs)
	}
	return nil
}

func main() {
	_ = gotenv.Load()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().String("output_dir", "", "output directory (default: next to input)")
	rootCmd.PersistentFlags().String("processed_dir", "", "archive directory for converted inputs")
	rootCmd.PersistentFlags().String("rules_file", "categorias.yaml", "categorization rules YAML")
	rootCmd.PersistentFlags().String("accounts_file", "contas.yaml", "account list YAML")
	convertCmd.Flags().BoolVar(&dump, "dump", false, "print parsed transactions instead of writing exports")

	rootCmd.AddCommand(convertCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
